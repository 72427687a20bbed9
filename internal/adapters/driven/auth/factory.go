// Package auth provides TokenProvider implementations for the readers.
package auth

import (
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Reader type IDs with a token in settings.
const (
	readerGitHub = "github"
	readerGitLab = "gitlab"
)

// ForReader returns the token provider for a reader type.
// Returns a NullTokenProvider when no token is configured.
func ForReader(settings domain.Settings, readerType string) driven.TokenProvider {
	var token string
	switch readerType {
	case readerGitHub:
		token = settings.GitHub.Token
	case readerGitLab:
		token = settings.GitLab.Token
	}

	if token == "" {
		return NewNullTokenProvider()
	}
	return NewPATProvider(token)
}
