package driven

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Reader fetches files from one remote repository host.
// Each host (GitHub, GitLab) implements this interface.
type Reader interface {
	// Type returns the reader type identifier (e.g. "github").
	Type() string

	// Name returns the reader name stamped on documents (e.g. "GithubReader").
	Name() string

	// Extensions returns the allow-listed file extensions, lower case with dot.
	Extensions() []string

	// Validate checks the reader is authenticated by making a lightweight API call.
	Validate(ctx context.Context) error

	// ListFiles enumerates allow-listed files under the location's folder,
	// in the order returned by the host API.
	ListFiles(ctx context.Context, location string) ([]domain.RemoteFile, error)

	// FetchFile retrieves one file's content. Binary types are base64-encoded.
	FetchFile(ctx context.Context, file domain.RemoteFile) (*domain.RawDocument, error)

	// Close releases resources.
	Close() error
}

// ReaderBuilder creates a Reader from settings.
type ReaderBuilder func(settings domain.Settings, tokenProvider TokenProvider) (Reader, error)

// ReaderFactory creates readers by type.
type ReaderFactory interface {
	// Create returns a Reader for the given type.
	// Returns ErrUnsupportedType if the type is unknown.
	Create(ctx context.Context, readerType string) (Reader, error)

	// Register adds a reader builder for the given type.
	Register(readerType string, builder ReaderBuilder)

	// SupportedTypes returns all registered reader types.
	SupportedTypes() []string
}
