package structured

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

func jsonRaw(content string) *domain.RawDocument {
	return &domain.RawDocument{
		Reader:   "GitLabReader",
		Name:     "data/record.json",
		Path:     "data/record.json",
		Link:     "https://gitlab.com/group/docs/-/blob/main/data/record.json",
		MIMEType: domain.MIMEJSON,
		DocType:  "Documentation",
		Content:  content,
		Metadata: map[string]any{"project": "group/docs"},
	}
}

func TestNormaliser_Interface(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"application/json"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 80, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_BinaryContent(t *testing.T) {
	raw := jsonRaw(domain.EncodeBinary([]byte(`{"text":"x"}`)))
	raw.Binary = true

	_, err := New().Normalise(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNormalise_FullRecord(t *testing.T) {
	content := `{
		"text": "Weaviate is a vector database.",
		"type": "FAQ",
		"name": "What is Weaviate",
		"path": "faq/weaviate",
		"link": "https://example.com/faq",
		"timestamp": "2024-03-01 12:30:00",
		"reader": "ManualImport",
		"meta": {"lang": "en", "votes": 3},
		"chunks": [
			{"chunk_id": 0, "text": "Weaviate is", "doc_name": "What is Weaviate", "doc_type": "FAQ"},
			{"chunk_id": 1, "text": "a vector database."}
		]
	}`

	result, err := New().Normalise(context.Background(), jsonRaw(content))
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	doc := result.Documents[0]
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Weaviate is a vector database.", doc.Text)
	assert.Equal(t, "FAQ", doc.Type)
	assert.Equal(t, "What is Weaviate", doc.Name)
	assert.Equal(t, "faq/weaviate", doc.Path)
	assert.Equal(t, "https://example.com/faq", doc.Link)
	assert.Equal(t, "2024-03-01 12:30:00", doc.Timestamp)
	assert.Equal(t, "ManualImport", doc.Reader)

	assert.Equal(t, "en", doc.Metadata["lang"])
	assert.Equal(t, float64(3), doc.Metadata["votes"])
	assert.Equal(t, "group/docs", doc.Metadata["project"])
	assert.Equal(t, domain.MIMEJSON, doc.Metadata["mime_type"])
	assert.Equal(t, "data/record.json", doc.Metadata["source_file"])

	assert.Equal(t, []domain.Chunk{
		{ChunkID: 0, Text: "Weaviate is", DocName: "What is Weaviate", DocType: "FAQ"},
		{ChunkID: 1, Text: "a vector database.", DocName: "What is Weaviate", DocType: "FAQ"},
	}, doc.Chunks)
}

func TestNormalise_FillsFromFile(t *testing.T) {
	raw := jsonRaw(`{"text": "only text"}`)

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Documents[0]
	assert.Equal(t, "only text", doc.Text)
	assert.Equal(t, "Documentation", doc.Type)
	assert.Equal(t, raw.Name, doc.Name)
	assert.Equal(t, raw.Path, doc.Path)
	assert.Equal(t, raw.Link, doc.Link)
	assert.Equal(t, "GitLabReader", doc.Reader)
	assert.NotEmpty(t, doc.Timestamp)
	assert.Empty(t, doc.Chunks)

	// Raw metadata is not mutated
	assert.Equal(t, map[string]any{"project": "group/docs"}, raw.Metadata)
}

func TestNormalise_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"text": "unterminated`},
		{name: "not an object", content: `["a", "b"]`},
		{name: "empty content", content: ``},
		{name: "missing text", content: `{"name": "no text"}`},
		{name: "empty text", content: `{"text": ""}`},
		{name: "null", content: `null`},
		{name: "wrong field type", content: `{"text": 42}`},
		{name: "bad timestamp", content: `{"text": "x", "timestamp": "yesterday"}`},
		{name: "empty chunk text", content: `{"text": "x", "chunks": [{"chunk_id": 0, "text": ""}]}`},
		{name: "negative chunk id", content: `{"text": "x", "chunks": [{"chunk_id": -1, "text": "y"}]}`},
		{name: "trailing data", content: `{"text": "a"} {"text": "b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), jsonRaw(tt.content))

			assert.ErrorIs(t, err, domain.ErrInvalidDocument)
			assert.Nil(t, result)
		})
	}
}
