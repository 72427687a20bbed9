package domain

import (
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default settings values.
const (
	DefaultGitLabBaseURL  = "https://gitlab.com"
	DefaultWorkers        = 4
	DefaultRequestTimeout = 30 * time.Second
	MaxWorkers            = 64
)

// Settings is the configuration injected into readers at construction.
// It replaces process-wide environment lookups.
type Settings struct {
	GitHub     GitHubSettings
	GitLab     GitLabSettings
	Extraction ExtractionSettings
	Fetch      FetchSettings
}

// GitHubSettings holds GitHub reader configuration.
type GitHubSettings struct {
	// Token is the personal access token. Empty means unauthenticated.
	Token string

	// BaseURL overrides the API endpoint (GitHub Enterprise). Empty means api.github.com.
	BaseURL string
}

// GitLabSettings holds GitLab reader configuration.
type GitLabSettings struct {
	// Token is the access token. Empty means unauthenticated.
	Token string

	// BaseURL is the instance URL (default https://gitlab.com).
	BaseURL string
}

// ExtractionSettings holds the rich document extraction service configuration.
type ExtractionSettings struct {
	// URL is the service base URL.
	URL string

	// APIKey is sent with every extraction request.
	APIKey string
}

// IsConfigured returns true if either the URL or the API key is set.
// Binary file types are only listed when extraction is configured.
func (e ExtractionSettings) IsConfigured() bool {
	return e.URL != "" || e.APIKey != ""
}

// FetchSettings controls how files are fetched.
type FetchSettings struct {
	// Workers bounds concurrent per-file fetches. 1 means sequential.
	Workers int

	// RequestsPerSecond throttles API calls per reader. 0 disables throttling.
	RequestsPerSecond float64

	// Timeout is the HTTP request timeout.
	Timeout time.Duration
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		GitLab: GitLabSettings{
			BaseURL: DefaultGitLabBaseURL,
		},
		Fetch: FetchSettings{
			Workers: DefaultWorkers,
			Timeout: DefaultRequestTimeout,
		},
	}
}

// Validate validates the settings.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.GitHub),
		validation.Field(&s.GitLab),
		validation.Field(&s.Extraction),
		validation.Field(&s.Fetch),
	)
}

// Validate validates the GitHub settings.
func (g GitHubSettings) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.BaseURL, validation.By(httpURL)),
	)
}

// Validate validates the GitLab settings.
func (g GitLabSettings) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.BaseURL, validation.Required, validation.By(httpURL)),
	)
}

// Validate validates the extraction settings.
func (e ExtractionSettings) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.URL, validation.By(httpURL)),
	)
}

// Validate validates the fetch settings.
func (f FetchSettings) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Workers, validation.Required, validation.Min(1), validation.Max(MaxWorkers)),
		validation.Field(&f.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&f.Timeout, validation.Required, validation.Min(time.Second)),
	)
}

// httpURL accepts empty strings and absolute http(s) URLs.
func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}
