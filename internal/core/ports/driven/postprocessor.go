package driven

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// PostProcessor transforms an assembled document before it is returned.
type PostProcessor interface {
	// Name returns the processor name for logging.
	Name() string

	// Process returns the document's chunks. Existing chunks are passed in
	// and may be kept or replaced.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs post-processors in order.
type PostProcessorPipeline interface {
	// Process runs every processor over doc and stores the resulting chunks
	// on it.
	Process(ctx context.Context, doc *domain.Document) error

	// Len returns the number of processors.
	Len() int
}
