package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// DefaultBranch is used when a location names no branch.
const DefaultBranch = "main"

// Location addresses a folder on a branch of a GitHub repository.
type Location struct {
	Owner  string
	Repo   string
	Branch string
	Folder string
}

// ParseLocation splits an owner/repo[/branch[/folder...]] string.
// At least the owner and repository segments are required.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("%w: %q: expected owner/repo[/branch[/folder]]",
			domain.ErrInvalidLocation, s)
	}

	loc := Location{
		Owner:  parts[0],
		Repo:   parts[1],
		Branch: DefaultBranch,
	}
	if len(parts) > 2 && parts[2] != "" {
		loc.Branch = parts[2]
	}
	if len(parts) > 3 {
		loc.Folder = strings.Join(parts[3:], "/")
	}
	return loc, nil
}

// String returns the canonical location string.
func (l Location) String() string {
	s := l.Owner + "/" + l.Repo + "/" + l.Branch
	if l.Folder != "" {
		s += "/" + l.Folder
	}
	return s
}
