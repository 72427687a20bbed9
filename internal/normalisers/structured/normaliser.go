// Package structured maps JSON document records directly onto documents.
//
// A structured file is a single JSON object shaped like a document:
//
//	{"text": "...", "name": "...", "type": "...", "meta": {...}, "chunks": [...]}
//
// Only text is required. Fields the record leaves empty are filled in
// from the fetched file.
package structured

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles structured JSON documents.
type Normaliser struct{}

// New creates a new structured document normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEJSON}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 80 // Format-specific, above generic text handling
}

// record is the JSON shape of a structured document.
type record struct {
	Text      string         `json:"text"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Link      string         `json:"link"`
	Timestamp string         `json:"timestamp"`
	Reader    string         `json:"reader"`
	Meta      map[string]any `json:"meta"`
	Chunks    []chunkRecord  `json:"chunks"`
}

type chunkRecord struct {
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
	DocName string `json:"doc_name"`
	DocType string `json:"doc_type"`
}

// Validate validates the record.
func (r record) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Timestamp, validation.Date(domain.TimestampLayout)),
		validation.Field(&r.Chunks),
	)
}

// Validate validates one chunk.
func (c chunkRecord) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Text, validation.Required),
		validation.Field(&c.ChunkID, validation.Min(0)),
	)
}

// Normalise decodes and validates the record and returns it as one document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if raw.Binary {
		return nil, fmt.Errorf("%w: binary %s content", domain.ErrUnsupportedType, raw.MIMEType)
	}

	rec, err := decode([]byte(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidDocument, raw.Name, err)
	}

	return &driven.NormaliseResult{
		Documents: []domain.Document{rec.document(raw)},
	}, nil
}

// decode parses a single JSON object and validates it.
func decode(data []byte) (*record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var rec record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse json: trailing data after document")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// document builds the document, preferring record fields over file fields.
func (r *record) document(raw *domain.RawDocument) domain.Document {
	doc := raw.NewDocument(r.Text)

	doc.Type = firstNonEmpty(r.Type, doc.Type)
	doc.Name = firstNonEmpty(r.Name, doc.Name)
	doc.Path = firstNonEmpty(r.Path, doc.Path)
	doc.Link = firstNonEmpty(r.Link, doc.Link)
	doc.Timestamp = firstNonEmpty(r.Timestamp, doc.Timestamp)
	doc.Reader = firstNonEmpty(r.Reader, doc.Reader)

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	maps.Copy(doc.Metadata, r.Meta)
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["source_file"] = raw.Name

	if len(r.Chunks) > 0 {
		doc.Chunks = make([]domain.Chunk, len(r.Chunks))
		for i, c := range r.Chunks {
			doc.Chunks[i] = domain.Chunk{
				ChunkID: c.ChunkID,
				Text:    c.Text,
				DocName: firstNonEmpty(c.DocName, doc.Name),
				DocType: firstNonEmpty(c.DocType, doc.Type),
			}
		}
	}
	return doc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
