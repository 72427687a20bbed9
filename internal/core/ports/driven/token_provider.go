package driven

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// TokenProvider provides access tokens for authenticated API calls.
// Tokens are read once at reader construction; there is no refresh.
type TokenProvider interface {
	// GetToken returns the access token.
	// Returns empty string for unauthenticated access.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns the authentication method (pat, none).
	AuthMethod() domain.AuthMethod

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
