package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// Assembler turns fetched content into documents.
//
// Binary content (PDF, EPUB) goes to the extraction service first and
// falls back to the local normaliser when extraction fails. Everything
// else is dispatched by MIME type through the normaliser registry.
type Assembler struct {
	registry  driven.NormaliserRegistry
	extractor driven.Extractor
}

// NewAssembler creates an assembler. The extractor may be nil, in which
// case binary content goes straight to the local fallback.
func NewAssembler(registry driven.NormaliserRegistry, extractor driven.Extractor) *Assembler {
	return &Assembler{
		registry:  registry,
		extractor: extractor,
	}
}

// Assemble returns at least one document for raw, or an error.
func (a *Assembler) Assemble(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if a.registry == nil {
		return nil, errors.New("normaliser registry not configured")
	}

	if raw.Binary && a.extractor != nil {
		docs, err := a.extractor.Extract(ctx, raw)
		if err == nil && len(docs) > 0 {
			logger.Debug("Extracted %d documents from %s with %s", len(docs), raw.Name, a.extractor.Name())
			return docs, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil {
			err = domain.ErrNoContent
		}
		logger.Warn("Couldn't load %s with %s, trying local reader: %v", raw.Name, a.extractor.Name(), err)
	}

	result, err := a.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.Name, err)
	}
	if result == nil || len(result.Documents) == 0 {
		return nil, fmt.Errorf("normalise %s: %w", raw.Name, domain.ErrNoContent)
	}
	return result.Documents, nil
}
