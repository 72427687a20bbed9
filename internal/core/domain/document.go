package domain

import "time"

// TimestampLayout is the layout used for Document.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultDocumentType is the document type used when the caller supplies none.
const DefaultDocumentType = "Documentation"

// Document is the uniform record produced for downstream ingestion.
// One fetched file yields one or more documents.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id" yaml:"id"`

	// Text is the full text content.
	Text string `json:"text" yaml:"text"`

	// Type is the caller-declared document category (e.g. "Documentation").
	Type string `json:"type" yaml:"type"`

	// Name is the display name, usually the repository path of the file.
	Name string `json:"name" yaml:"name"`

	// Link is the human-facing web URL of the source file.
	Link string `json:"link" yaml:"link"`

	// Path is the resolved repository path of the source file.
	Path string `json:"path" yaml:"path"`

	// Timestamp is when the document was ingested, in TimestampLayout.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Reader identifies the adapter that produced the document.
	Reader string `json:"reader" yaml:"reader"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`

	// Chunks carries pre-chunked content from structured documents.
	Chunks []Chunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// Chunk is a pre-computed slice of a structured document.
type Chunk struct {
	ChunkID int    `json:"chunk_id" yaml:"chunk_id"`
	Text    string `json:"text" yaml:"text"`
	DocName string `json:"doc_name,omitempty" yaml:"doc_name,omitempty"`
	DocType string `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Now returns the current time in TimestampLayout.
func Now() string {
	return FormatTimestamp(time.Now())
}
