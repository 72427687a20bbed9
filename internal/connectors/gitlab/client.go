package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gl "github.com/xanzy/go-gitlab"

	"github.com/custodia-labs/reporeader/internal/connectors/throttle"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// perPage is the tree listing page size.
const perPage = 100

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL is the instance URL. Empty means https://gitlab.com.
	BaseURL string

	// Timeout is the HTTP request timeout. Zero means domain.DefaultRequestTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles API calls. Zero disables throttling.
	RequestsPerSecond float64
}

// Client wraps the go-gitlab client with helper methods.
type Client struct {
	mu            sync.Mutex
	gl            *gl.Client
	tokenProvider driven.TokenProvider
	opts          ClientOptions
	limiter       *throttle.Limiter
}

// NewClient creates a new GitLab API client with a token provider.
// A nil token provider means unauthenticated requests.
func NewClient(tokenProvider driven.TokenProvider, opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = domain.DefaultGitLabBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultRequestTimeout
	}
	return &Client{
		tokenProvider: tokenProvider,
		opts:          opts,
		limiter:       throttle.New(opts.RequestsPerSecond),
	}
}

// WebBaseURL returns the instance URL used for human-facing links.
func (c *Client) WebBaseURL() string {
	return strings.TrimSuffix(c.opts.BaseURL, "/")
}

// ensureClient initialises the go-gitlab client if not already done.
// The token is read once, on first use.
func (c *Client) ensureClient(ctx context.Context) (*gl.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gl != nil {
		return c.gl, nil
	}

	token := ""
	if c.tokenProvider != nil {
		var err error
		if token, err = c.tokenProvider.GetToken(ctx); err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
	}

	// go-gitlab appends /api/v4/ to the base URL. Retries are disabled and
	// the shared throttle replaces go-gitlab's own limiter.
	client, err := gl.NewClient(token,
		gl.WithBaseURL(c.opts.BaseURL),
		gl.WithHTTPClient(&http.Client{Timeout: c.opts.Timeout}),
		gl.WithCustomLimiter(c.limiter),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}

	c.gl = client
	return c.gl, nil
}

// ListTree lists one folder level, following pagination.
func (c *Client) ListTree(ctx context.Context, project, ref, path string) ([]*gl.TreeNode, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	opts := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Ref:         gl.Ptr(ref),
	}
	if path != "" {
		opts.Path = gl.Ptr(path)
	}

	var nodes []*gl.TreeNode
	for {
		page, resp, err := client.Repositories.ListTree(project, opts, gl.WithContext(ctx))
		c.updateRateLimitFromResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list tree")
		}

		nodes = append(nodes, page...)

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return nodes, nil
}

// GetRawFile fetches a file's raw bytes. The file path is escaped by go-gitlab.
func (c *Client) GetRawFile(ctx context.Context, project, ref, path string) ([]byte, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	opts := &gl.GetRawFileOptions{Ref: gl.Ptr(ref)}
	body, resp, err := client.RepositoryFiles.GetRawFile(project, path, opts, gl.WithContext(ctx))
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get raw file")
	}
	return body, nil
}

// ValidateCredentials checks if the provided token is valid by making an API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return err
	}

	_, resp, err := client.Users.CurrentUser(gl.WithContext(ctx))
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}
	return nil
}

// updateRateLimitFromResponse records quota state from GitLab response headers.
func (c *Client) updateRateLimitFromResponse(resp *gl.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.limiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-gitlab errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// go-gitlab reports 404 as a bare sentinel without the response.
	if errors.Is(err, gl.ErrNotFound) {
		return &APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("%s: %v", operation, err),
		}
	}

	var glErr *gl.ErrorResponse
	if errors.As(err, &glErr) && glErr.Response != nil {
		apiErr := &APIError{
			StatusCode: glErr.Response.StatusCode,
			Message:    glErr.Message,
		}
		if glErr.Response.Request != nil {
			apiErr.URL = glErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
