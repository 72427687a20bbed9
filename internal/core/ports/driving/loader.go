package driving

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Loader fetches documents from remote repositories in batches.
type Loader interface {
	// Load lists, fetches and assembles documents for every location using
	// the named reader type. Failed files and locations are skipped and
	// recorded in the report; only cancellation or an unknown reader type
	// returns an error.
	Load(ctx context.Context, readerType string, locations []string, docType string) ([]domain.Document, *domain.LoadReport, error)
}

// ProgressFunc is called after each file completes, successfully or not.
type ProgressFunc func(file domain.RemoteFile, err error)
