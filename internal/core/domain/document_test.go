package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Fields(t *testing.T) {
	doc := Document{
		ID:        "doc-123",
		Text:      "# Intro",
		Type:      "Documentation",
		Name:      "guide/intro.md",
		Link:      "https://github.com/acme/docs/blob/main/guide/intro.md",
		Path:      "guide/intro.md",
		Timestamp: "2024-01-02 03:04:05",
		Reader:    "GithubReader",
		Metadata:  map[string]any{"owner": "acme"},
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "# Intro", doc.Text)
	assert.Equal(t, "Documentation", doc.Type)
	assert.Equal(t, "guide/intro.md", doc.Name)
	assert.Equal(t, "GithubReader", doc.Reader)
	assert.Equal(t, "acme", doc.Metadata["owner"])
	assert.Nil(t, doc.Chunks)
}

func TestDocument_JSONFieldNames(t *testing.T) {
	doc := Document{
		Text:   "hello",
		Type:   "Blog",
		Name:   "a.txt",
		Reader: "GitLabReader",
		Chunks: []Chunk{{ChunkID: 0, Text: "hello"}},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "hello", fields["text"])
	assert.Equal(t, "Blog", fields["type"])
	assert.Equal(t, "GitLabReader", fields["reader"])
	assert.Contains(t, fields, "chunks")
	assert.NotContains(t, fields, "meta", "empty metadata is omitted")
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	assert.Equal(t, "2024-03-09 14:05:07", FormatTimestamp(ts))
}

func TestNow_UsesLayout(t *testing.T) {
	parsed, err := time.ParseInLocation(TimestampLayout, Now(), time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, 2*time.Second)
}
