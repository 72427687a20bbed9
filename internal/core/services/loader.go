package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// Ensure Loader implements the interface.
var _ driving.Loader = (*Loader)(nil)

// Loader lists, fetches and assembles documents for batches of locations.
type Loader struct {
	factory   driven.ReaderFactory
	assembler *Assembler
	workers   int
	validate  bool
	pipeline  driven.PostProcessorPipeline

	progressMu sync.Mutex
	progress   driving.ProgressFunc
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkers bounds concurrent file fetches. Values below 1 mean sequential.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		l.workers = n
	}
}

// WithProgress registers a callback invoked after each file completes.
// Calls are serialised.
func WithProgress(fn driving.ProgressFunc) LoaderOption {
	return func(l *Loader) {
		l.progress = fn
	}
}

// WithValidation checks reader credentials before listing.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.validate = enabled
	}
}

// WithPostProcessing runs every assembled document through pipeline.
func WithPostProcessing(pipeline driven.PostProcessorPipeline) LoaderOption {
	return func(l *Loader) {
		l.pipeline = pipeline
	}
}

// NewLoader creates a new loader.
func NewLoader(factory driven.ReaderFactory, assembler *Assembler, opts ...LoaderOption) *Loader {
	l := &Loader{
		factory:   factory,
		assembler: assembler,
		workers:   domain.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	return l
}

// fileOutcome is the result of processing one file.
type fileOutcome struct {
	docs []domain.Document
	err  error
}

// Load processes every location with the named reader. Documents are
// returned in listing order. Files and locations that fail are skipped
// and recorded in the report.
func (l *Loader) Load(
	ctx context.Context,
	readerType string,
	locations []string,
	docType string,
) ([]domain.Document, *domain.LoadReport, error) {
	report := &domain.LoadReport{}

	if l.factory == nil {
		return nil, report, errors.New("reader factory not configured")
	}
	if l.assembler == nil {
		return nil, report, errors.New("assembler not configured")
	}
	if docType == "" {
		docType = domain.DefaultDocumentType
	}

	reader, err := l.factory.Create(ctx, readerType)
	if err != nil {
		return nil, report, err
	}
	defer reader.Close()

	if l.validate {
		if err := reader.Validate(ctx); err != nil {
			return nil, report, fmt.Errorf("%w: %w", domain.ErrReaderValidation, err)
		}
	}

	log := logger.With(reader.Name())
	var documents []domain.Document

	for _, location := range locations {
		location = strings.TrimSpace(location)
		if location == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		report.Locations++

		files, err := reader.ListFiles(ctx, location)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, report, ctxErr
			}
			var partial *domain.PartialListingError
			if !errors.As(err, &partial) {
				log.Warn().Err(err).Str("location", location).Msg("Skipping location")
				report.Skip(location, "", err)
				continue
			}
			for _, failed := range partial.Failed {
				report.Skip(location, failed.Folder, failed.Err)
			}
		}

		log.Info().Str("location", location).Int("files", len(files)).Msg("Fetched file list")
		report.Listed += len(files)

		outcomes, err := l.loadFiles(ctx, reader, files, docType)
		if err != nil {
			return nil, report, err
		}

		for i, outcome := range outcomes {
			if outcome.err != nil {
				report.Skip(location, files[i].Path, outcome.err)
				continue
			}
			report.Loaded++
			documents = append(documents, outcome.docs...)
		}
	}

	report.Documents = len(documents)
	logger.Info("Loaded %d documents from %d files (%d skipped)",
		report.Documents, report.Loaded, len(report.Skipped))
	return documents, report, nil
}

// loadFiles processes files on a bounded pool. Outcomes are indexed by
// listing position. Only cancellation returns an error.
func (l *Loader) loadFiles(
	ctx context.Context,
	reader driven.Reader,
	files []domain.RemoteFile,
	docType string,
) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = l.loadFile(gctx, reader, file, docType)
			l.reportProgress(file, outcomes[i].err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// loadFile fetches and assembles one file.
func (l *Loader) loadFile(
	ctx context.Context,
	reader driven.Reader,
	file domain.RemoteFile,
	docType string,
) fileOutcome {
	logger.Debug("Loading %s", file.Path)

	raw, err := reader.FetchFile(ctx, file)
	if err != nil {
		logger.Warn("Couldn't load, skipping %s: %v", file.Path, err)
		return fileOutcome{err: fmt.Errorf("fetch: %w", err)}
	}
	raw.DocType = docType

	docs, err := l.assembler.Assemble(ctx, raw)
	if err != nil {
		logger.Warn("Skipping %s: %v", file.Path, err)
		return fileOutcome{err: err}
	}

	if l.pipeline != nil && l.pipeline.Len() > 0 {
		for i := range docs {
			if err := l.pipeline.Process(ctx, &docs[i]); err != nil {
				logger.Warn("Skipping %s: %v", file.Path, err)
				return fileOutcome{err: fmt.Errorf("post-process: %w", err)}
			}
		}
	}

	logger.Debug("Loaded %d documents from %s", len(docs), file.Path)
	return fileOutcome{docs: docs}
}

func (l *Loader) reportProgress(file domain.RemoteFile, err error) {
	if l.progress == nil {
		return
	}
	l.progressMu.Lock()
	defer l.progressMu.Unlock()
	l.progress(file, err)
}
