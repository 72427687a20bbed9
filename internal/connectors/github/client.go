package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/reporeader/internal/connectors/throttle"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL is the API root, e.g. https://ghe.example.com/api/v3. Empty means api.github.com.
	BaseURL string

	// Timeout is the HTTP request timeout. Zero means domain.DefaultRequestTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles API calls. Zero disables throttling.
	RequestsPerSecond float64
}

// Client wraps the go-github client with helper methods.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	http          *http.Client
	plain         *http.Client // no credentials, for hosts other than the API
	apiHost       string
	tokenProvider driven.TokenProvider
	opts          ClientOptions
	limiter       *throttle.Limiter
}

// NewClient creates a new GitHub API client with a token provider.
// A nil token provider means unauthenticated requests.
func NewClient(tokenProvider driven.TokenProvider, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultRequestTimeout
	}
	return &Client{
		tokenProvider: tokenProvider,
		opts:          opts,
		limiter:       throttle.New(opts.RequestsPerSecond),
	}
}

// ensureClient initialises the go-github client if not already done.
// The token is read once, on first use.
func (c *Client) ensureClient(ctx context.Context) (*gh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return c.gh, nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	hc := &http.Client{Timeout: c.opts.Timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
		hc.Timeout = c.opts.Timeout
	}

	client := gh.NewClient(hc)
	if c.opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(c.opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
		client.BaseURL = base
	}

	c.gh = client
	c.http = hc
	c.plain = &http.Client{Timeout: c.opts.Timeout}
	c.apiHost = client.BaseURL.Host
	return c.gh, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokenProvider == nil {
		return "", nil
	}
	return c.tokenProvider.GetToken(ctx)
}

// GetTree fetches the entire tree for a branch recursively.
// This is efficient for getting all file paths in one API call.
func (c *Client) GetTree(ctx context.Context, owner, repo, branch string) (*gh.Tree, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := client.Git.GetTree(ctx, owner, repo, branch, true) // recursive=true
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	return tree, nil
}

// GetContents fetches the metadata and embedded content of a single file.
// Path segments are percent-encoded by go-github.
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) (*gh.RepositoryContent, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get contents")
	}

	if content == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	return content, nil
}

// Download fetches the bytes behind a download_url. The token is only sent
// when the URL points at the API host; raw.githubusercontent.com links for
// private repositories carry their own short-lived token in the query.
func (c *Client) Download(ctx context.Context, downloadURL string) ([]byte, error) {
	if downloadURL == "" {
		return nil, ErrNoDownloadURL
	}

	target, err := url.Parse(downloadURL)
	if err != nil {
		return nil, fmt.Errorf("parse download URL: %w", err)
	}

	if _, err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	hc := c.http
	if !strings.EqualFold(target.Host, c.apiHost) {
		hc = c.plain
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        downloadURL,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}
	return body, nil
}

// ValidateCredentials checks if the provided token is valid by making an API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, resp, err := client.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}
	return nil
}

// updateRateLimitFromResponse records quota state from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Rate limit errors are also 403 responses, check them first.
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
