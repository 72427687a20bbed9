// Package plaintext wraps text content verbatim as a single document.
package plaintext

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEPlainText,
		"*",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise wraps the content verbatim in one document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if raw.Binary {
		return nil, fmt.Errorf("%w: binary %s content", domain.ErrUnsupportedType, raw.MIMEType)
	}

	doc := raw.NewDocument(raw.Content)

	// Add MIME type and title to metadata for reference
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["title"] = extractTitleFromMetadataOrName(raw)

	return &driven.NormaliseResult{
		Documents: []domain.Document{doc},
	}, nil
}

// extractTitleFromMetadataOrName checks metadata for title first, then falls back to the file name.
func extractTitleFromMetadataOrName(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return extractTitle(raw.Name)
}

// extractTitle extracts a human-readable title from a file path.
func extractTitle(p string) string {
	filename := path.Base(p)

	// Remove common extensions for cleaner title
	if ext := path.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
