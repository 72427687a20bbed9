// Package postprocessors runs assembled documents through post-processors
// such as the chunker.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided; nil entries are dropped.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	p := &Pipeline{}
	for _, processor := range processors {
		p.Add(processor)
	}
	return p
}

// Process runs the document through all processors in order. The first
// processor receives the document's own chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}

	chunks := doc.Chunks
	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	doc.Chunks = chunks
	return nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	if processor == nil {
		return
	}
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
