package auth

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is used when no token is configured.
// Requests are sent unauthenticated and subject to anonymous rate limits.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for unauthenticated access.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no token is configured.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// AuthMethod returns AuthMethodNone.
func (p *NullTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodNone
}

// IsAuthenticated always returns false.
func (p *NullTokenProvider) IsAuthenticated() bool {
	return false
}
