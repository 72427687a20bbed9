package driving

import "github.com/custodia-labs/reporeader/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves the current settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Keys returns all settable keys in display order.
	Keys() []string

	// Effective returns a key's resolved value and where it came from:
	// "env", "config" or "default".
	Effective(key string) (value, source string)

	// EnvVar returns the environment variable overriding key, if any.
	EnvVar(key string) string

	// Path returns the config file location.
	Path() string
}
