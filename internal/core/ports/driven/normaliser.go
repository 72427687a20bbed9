package driven

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Normaliser transforms fetched content into document records.
// Each normaliser handles specific MIME types (e.g., PDF, JSON).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	// "*" marks a fallback normaliser.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into one or more documents.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Documents holds at least one document on success.
	Documents []domain.Document
}
