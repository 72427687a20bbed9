package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyGitHubToken       = "github.token"
	KeyGitHubURL         = "github.url"
	KeyGitLabToken       = "gitlab.token"
	KeyGitLabURL         = "gitlab.url"
	KeyExtractionURL     = "extraction.url"
	KeyExtractionAPIKey  = "extraction.api_key"
	KeyWorkers           = "fetch.workers"
	KeyRequestsPerSecond = "fetch.requests_per_second"
	KeyTimeout           = "fetch.timeout"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvGitHubURL        = "GITHUB_API_URL"
	EnvGitLabToken      = "GITLAB_TOKEN"
	EnvGitLabURL        = "GITLAB_URL"
	EnvExtractionURL    = "UNSTRUCTURED_API_URL"
	EnvExtractionAPIKey = "UNSTRUCTURED_API_KEY"
	EnvWorkers          = "REPOREADER_WORKERS"
)

// settingKeys lists settable keys in display order.
var settingKeys = []string{
	KeyGitHubToken,
	KeyGitHubURL,
	KeyGitLabToken,
	KeyGitLabURL,
	KeyExtractionURL,
	KeyExtractionAPIKey,
	KeyWorkers,
	KeyRequestsPerSecond,
	KeyTimeout,
}

// envOverrides maps config keys to the environment variable that overrides them.
var envOverrides = map[string]string{
	KeyGitHubToken:      EnvGitHubToken,
	KeyGitHubURL:        EnvGitHubURL,
	KeyGitLabToken:      EnvGitLabToken,
	KeyGitLabURL:        EnvGitLabURL,
	KeyExtractionURL:    EnvExtractionURL,
	KeyExtractionAPIKey: EnvExtractionAPIKey,
	KeyWorkers:          EnvWorkers,
}

// SecretKeys are masked when settings are displayed.
var SecretKeys = map[string]bool{
	KeyGitHubToken:      true,
	KeyGitLabToken:      true,
	KeyExtractionAPIKey: true,
}

// SettingsService resolves settings from defaults, the config store and
// the environment, in increasing precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get resolves and validates the current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	for _, key := range settingKeys {
		raw, ok := s.value(key)
		if !ok {
			continue
		}
		if err := apply(&settings, key, raw); err != nil {
			return nil, err
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return &settings, nil
}

// Set validates and persists a single setting. An empty value removes the key.
func (s *SettingsService) Set(key, value string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("unset %s: %w", key, err)
		}
		return nil
	}

	// Validate the value on its own before persisting
	settings := domain.DefaultSettings()
	if err := apply(&settings, key, value); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, storedValue(key, value)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns all settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Source reports where a key's effective value comes from:
// "env", "config" or "default".
func (s *SettingsService) Source(key string) string {
	if env, ok := envOverrides[key]; ok {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			return "env"
		}
	}
	if _, ok := s.configStore.Get(key); ok {
		return "config"
	}
	return "default"
}

// Effective returns the resolved value of key and its source.
func (s *SettingsService) Effective(key string) (string, string) {
	source := s.Source(key)
	if source != "default" {
		v, _ := s.value(key)
		return v, source
	}
	return defaultValue(key), source
}

// EnvVar returns the environment variable overriding key, if any.
func (s *SettingsService) EnvVar(key string) string {
	return envOverrides[key]
}

// value returns the raw string for key, environment first.
func (s *SettingsService) value(key string) (string, bool) {
	if env, ok := envOverrides[key]; ok {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			return v, true
		}
	}

	stored, ok := s.configStore.Get(key)
	if !ok {
		return "", false
	}
	switch v := stored.(type) {
	case string:
		return v, v != ""
	case int64:
		return strconv.FormatInt(v, 10), true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

// apply parses raw and assigns it to the field named by key.
func apply(settings *domain.Settings, key, raw string) error {
	switch key {
	case KeyGitHubToken:
		settings.GitHub.Token = raw
	case KeyGitHubURL:
		settings.GitHub.BaseURL = raw
	case KeyGitLabToken:
		settings.GitLab.Token = raw
	case KeyGitLabURL:
		settings.GitLab.BaseURL = raw
	case KeyExtractionURL:
		settings.Extraction.URL = raw
	case KeyExtractionAPIKey:
		settings.Extraction.APIKey = raw
	case KeyWorkers:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", domain.ErrInvalidInput, key, raw)
		}
		settings.Fetch.Workers = n
	case KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %q", domain.ErrInvalidInput, key, raw)
		}
		settings.Fetch.RequestsPerSecond = f
	case KeyTimeout:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be a duration: %q", domain.ErrInvalidInput, key, raw)
		}
		settings.Fetch.Timeout = d
	}
	return nil
}

// defaultValue renders the default for key, empty when there is none.
func defaultValue(key string) string {
	defaults := domain.DefaultSettings()
	switch key {
	case KeyGitLabURL:
		return defaults.GitLab.BaseURL
	case KeyWorkers:
		return strconv.Itoa(defaults.Fetch.Workers)
	case KeyRequestsPerSecond:
		return strconv.FormatFloat(defaults.Fetch.RequestsPerSecond, 'f', -1, 64)
	case KeyTimeout:
		return defaults.Fetch.Timeout.String()
	default:
		return ""
	}
}

// storedValue converts a validated value to its TOML type.
func storedValue(key, raw string) any {
	switch key {
	case KeyWorkers:
		n, _ := strconv.Atoi(raw)
		return n
	case KeyRequestsPerSecond:
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	default:
		return raw
	}
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}
