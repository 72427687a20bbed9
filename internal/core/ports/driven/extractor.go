package driven

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Extractor converts binary PDF/EPUB content into documents using an
// external rich-extraction service.
type Extractor interface {
	// Name returns the extractor name for logging.
	Name() string

	// Extract returns one or more documents for the raw binary content.
	Extract(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)
}
