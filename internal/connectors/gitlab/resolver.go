package gitlab

import "strings"

// ResolveWebURL converts a GitLab URI to a web URL.
// gitlab://group/project/-/blob/branch/path -> https://gitlab.com/group/project/-/blob/branch/path
func ResolveWebURL(uri string, metadata map[string]any) string {
	if link, ok := metadata["web_url"].(string); ok && link != "" {
		return link
	}
	if strings.HasPrefix(uri, "gitlab://") {
		return "https://gitlab.com/" + strings.TrimPrefix(uri, "gitlab://")
	}
	return ""
}

// buildFileURI creates a URI for a file.
func buildFileURI(loc Location, path string) string {
	return "gitlab://" + loc.Project + "/-/blob/" + loc.Branch + "/" + path
}

// buildWebURL creates the human-facing link for a file.
func buildWebURL(webBase string, loc Location, path string) string {
	return strings.TrimSuffix(webBase, "/") + "/" + loc.Project + "/-/blob/" + loc.Branch + "/" + path
}
