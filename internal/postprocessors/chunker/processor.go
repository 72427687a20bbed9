// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits document text into fixed-size chunks.
// Sizes are counted in runes so multi-byte characters are never split.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into chunks. Chunks already carried by
// the document (structured JSON input) are kept as they are.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, existing []domain.Chunk) ([]domain.Chunk, error) {
	if len(existing) > 0 {
		return existing, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := []rune(doc.Text)
	if len(text) == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := min(start+p.chunkSize, len(text))
		chunks = append(chunks, domain.Chunk{
			ChunkID: len(chunks),
			Text:    string(text[start:end]),
			DocName: doc.Name,
			DocType: doc.Type,
		})
		if end == len(text) {
			break
		}
	}

	return chunks, nil
}
