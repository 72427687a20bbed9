package gitlab

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// Location addresses a folder on a branch of a GitLab project.
type Location struct {
	// Project is a numeric ID or a full path (group/project), unescaped.
	Project string
	Branch  string
	Folder  string
}

// ParseLocation splits a project/branch[/folder...] string.
// Both the project and branch segments are required.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("%w: %q: expected project/branch[/folder]",
			domain.ErrInvalidLocation, s)
	}

	project := parts[0]
	if strings.Contains(project, "%") {
		// go-gitlab escapes the project itself; avoid double encoding.
		unescaped, err := url.PathUnescape(project)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %q: %w", domain.ErrInvalidLocation, s, err)
		}
		project = unescaped
	}

	loc := Location{
		Project: project,
		Branch:  parts[1],
	}
	if len(parts) > 2 {
		loc.Folder = strings.Join(parts[2:], "/")
	}
	return loc, nil
}

// String returns the canonical location string with the project escaped.
func (l Location) String() string {
	s := url.PathEscape(l.Project) + "/" + l.Branch
	if l.Folder != "" {
		s += "/" + l.Folder
	}
	return s
}
