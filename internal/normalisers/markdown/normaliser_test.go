package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	mimeTypes := normaliser.SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
	assert.Len(t, mimeTypes, 2)
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	content := "# Hello World\n\nThis is a **test**.\n"

	raw := &domain.RawDocument{
		Reader:   "GitLabReader",
		Name:     "guide/intro.md",
		Path:     "guide/intro.md",
		MIMEType: "text/markdown",
		Content:  content,
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	doc := result.Documents[0]
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, content, doc.Text, "text is kept verbatim")
	assert.Equal(t, "GitLabReader", doc.Reader)
	assert.Equal(t, domain.DefaultDocumentType, doc.Type)
	assert.Equal(t, "Hello World", doc.Metadata["title"])
	assert.Equal(t, "text/markdown", doc.Metadata["mime_type"])
	assert.Equal(t, "markdown", doc.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		path          string
		expectedTitle string
	}{
		{
			name:          "H1 heading",
			content:       "# My Document\n\nContent here.",
			path:          "doc.md",
			expectedTitle: "My Document",
		},
		{
			name:          "H1 with extra spaces",
			content:       "#   Spaced Title   \n\nContent",
			path:          "doc.md",
			expectedTitle: "Spaced Title",
		},
		{
			name:          "no heading - fallback to filename",
			content:       "Just some content without heading.",
			path:          "docs/my_document.md",
			expectedTitle: "my document",
		},
		{
			name:          "H2 first - fallback to filename",
			content:       "## Second Level\n\nNo H1.",
			path:          "readme.mdx",
			expectedTitle: "readme",
		},
		{
			name:          "front matter title wins",
			content:       "---\ntitle: Getting Started\nsidebar_position: 2\n---\n# Other\n",
			path:          "start.mdx",
			expectedTitle: "Getting Started",
		},
		{
			name:          "front matter without title uses heading",
			content:       "---\nslug: /x\n---\n\n# From Heading\n",
			path:          "x.md",
			expectedTitle: "From Heading",
		},
		{
			name:          "unterminated front matter is body",
			content:       "---\ntitle: Nope\n# Real\n",
			path:          "x.md",
			expectedTitle: "Real",
		},
	}

	normaliser := New()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := &domain.RawDocument{
				Name:     tc.path,
				MIMEType: "text/markdown",
				Content:  tc.content,
			}

			result, err := normaliser.Normalise(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTitle, result.Documents[0].Metadata["title"])
			assert.Equal(t, tc.content, result.Documents[0].Text)
		})
	}
}

func TestNormalise_FrontMatterDescription(t *testing.T) {
	raw := &domain.RawDocument{
		Name:    "a.md",
		Content: "---\r\ntitle: A\r\ndescription: About A\r\n---\r\nbody",
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "A", result.Documents[0].Metadata["title"])
	assert.Equal(t, "About A", result.Documents[0].Metadata["description"])
}

func TestSplitFrontMatter(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		matter, body := splitFrontMatter("# Title")
		assert.Nil(t, matter)
		assert.Equal(t, "# Title", body)
	})

	t.Run("invalid yaml is body", func(t *testing.T) {
		content := "---\ntitle: [unclosed\n---\nbody"
		matter, body := splitFrontMatter(content)
		assert.Nil(t, matter)
		assert.Equal(t, content, body)
	})

	t.Run("splits body", func(t *testing.T) {
		matter, body := splitFrontMatter("---\ntitle: T\n---\nbody\n")
		assert.Equal(t, "T", matter["title"])
		assert.Equal(t, "body\n", body)
	})
}

func TestNormalise_MetadataPreserved(t *testing.T) {
	raw := &domain.RawDocument{
		Name:     "doc.md",
		MIMEType: "text/markdown",
		Content:  "# Title\n\nContent",
		Metadata: map[string]any{"branch": "main", "size": 42},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Documents[0]
	assert.Equal(t, "main", doc.Metadata["branch"])
	assert.Equal(t, 42, doc.Metadata["size"])
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
