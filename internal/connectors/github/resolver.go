package github

import "strings"

// ResolveWebURL converts a GitHub URI to a web URL.
// github://owner/repo/blob/branch/path -> https://github.com/owner/repo/blob/branch/path
func ResolveWebURL(uri string, metadata map[string]any) string {
	if link, ok := metadata["html_url"].(string); ok && link != "" {
		return link
	}
	if strings.HasPrefix(uri, "github://") {
		return "https://github.com/" + strings.TrimPrefix(uri, "github://")
	}
	return ""
}

// buildFileURI creates a URI for a file.
func buildFileURI(loc Location, path string) string {
	return "github://" + loc.Owner + "/" + loc.Repo + "/blob/" + loc.Branch + "/" + path
}
