package github

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/reporeader/internal/connectors/filetype"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Reader identity.
const (
	ReaderType = "github"
	ReaderName = "GithubReader"
)

// Ensure Connector implements the interface.
var _ driven.Reader = (*Connector)(nil)

// Connector reads files from GitHub repositories.
type Connector struct {
	client        *Client
	tokenProvider driven.TokenProvider
	allowList     []string
	mu            sync.Mutex
	closed        bool
}

// New creates a new GitHub reader. Binary types are only allow-listed when
// an extraction service is configured.
func New(settings domain.Settings, tokenProvider driven.TokenProvider) (*Connector, error) {
	var extra []string
	if settings.Extraction.IsConfigured() {
		extra = []string{".pdf", ".epub"}
	}

	return &Connector{
		tokenProvider: tokenProvider,
		allowList:     filetype.AllowList(extra...),
		client: NewClient(tokenProvider, ClientOptions{
			BaseURL:           settings.GitHub.BaseURL,
			Timeout:           settings.Fetch.Timeout,
			RequestsPerSecond: settings.Fetch.RequestsPerSecond,
		}),
	}, nil
}

// Type returns the reader type identifier.
func (c *Connector) Type() string {
	return ReaderType
}

// Name returns the reader name stamped on documents.
func (c *Connector) Name() string {
	return ReaderName
}

// Extensions returns the allow-listed extensions.
func (c *Connector) Extensions() []string {
	return slices.Clone(c.allowList)
}

// Validate checks if the GitHub reader is properly configured.
func (c *Connector) Validate(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	// Check context cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if c.tokenProvider == nil || !c.tokenProvider.IsAuthenticated() {
		return fmt.Errorf("%w: no GitHub token configured", domain.ErrAuthRequired)
	}

	// Validate credentials by making an API call
	if err := c.client.ValidateCredentials(ctx); err != nil {
		if IsUnauthorized(err) {
			return domain.ErrAuthInvalid
		}
		return fmt.Errorf("%w: %w", domain.ErrReaderValidation, err)
	}

	return nil
}

// ListFiles lists allow-listed files under a location.
func (c *Connector) ListFiles(ctx context.Context, location string) ([]domain.RemoteFile, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return listFiles(ctx, c.client, location, c.allowList)
}

// FetchFile retrieves a single listed file.
func (c *Connector) FetchFile(ctx context.Context, file domain.RemoteFile) (*domain.RawDocument, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return fetchFile(ctx, c.client, file)
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Connector) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrReaderClosed
	}
	return nil
}
