package domain

// AuthMethod defines how a reader authenticates.
type AuthMethod string

const (
	// AuthMethodNone sends no credentials.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodPAT uses a personal or project access token.
	AuthMethodPAT AuthMethod = "pat"
)

// ReaderType describes a supported reader.
type ReaderType struct {
	// ID is the unique identifier (e.g., "github", "gitlab").
	ID string
	// Name is the reader name stamped on produced documents (e.g., "GithubReader").
	Name string
	// Description provides a brief explanation including the location format.
	Description string
	// LocationFormat documents the expected location string.
	LocationFormat string
	// TokenKey is the settings key holding the reader's token.
	TokenKey string
	// TokenEnv is the environment variable that overrides TokenKey.
	TokenEnv string
}
