package auth

import (
	"context"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

// PATProvider provides a static Personal Access Token.
// PATs don't expire and don't require refresh.
type PATProvider struct {
	token string
}

// NewPATProvider creates a token provider for a personal access token.
func NewPATProvider(token string) *PATProvider {
	return &PATProvider{token: token}
}

// GetToken returns the PAT token.
func (p *PATProvider) GetToken(_ context.Context) (string, error) {
	return p.token, nil
}

// AuthMethod returns AuthMethodPAT.
func (p *PATProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if the token is non-empty.
func (p *PATProvider) IsAuthenticated() bool {
	return p.token != ""
}
