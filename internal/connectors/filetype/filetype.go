// Package filetype classifies repository files by extension.
package filetype

import (
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

// TextExtensions are always eligible for ingestion.
var TextExtensions = []string{".md", ".mdx", ".txt", ".json"}

// extMIMETypes maps allow-listed extensions to MIME types. Go's registry
// knows none of .md, .mdx or .epub on most systems.
var extMIMETypes = map[string]string{
	".md":       domain.MIMEMarkdown,
	".mdx":      domain.MIMEMarkdown,
	".markdown": domain.MIMEMarkdown,
	".txt":      domain.MIMEPlainText,
	".json":     domain.MIMEJSON,
	".pdf":      domain.MIMEPDF,
	".epub":     domain.MIMEEPUB,
}

// Ext returns the lower-cased extension of p, including the dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// DetectMIMEType determines the MIME type from the file extension.
func DetectMIMEType(p string) string {
	ext := Ext(p)
	if ext == "" {
		return domain.MIMEPlainText
	}

	if t, ok := extMIMETypes[ext]; ok {
		return t
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip charset and other parameters.
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return domain.MIMEPlainText
}

// IsBinary reports whether the file must be transported base64-encoded.
func IsBinary(p string) bool {
	switch Ext(p) {
	case ".pdf", ".epub":
		return true
	}
	return false
}

// Allowed reports whether the file's extension is in the allow-list.
// Extensions match regardless of case, so README.MD is read like README.md.
func Allowed(p string, allowList []string) bool {
	ext := Ext(p)
	return ext != "" && slices.Contains(allowList, ext)
}

// AllowList returns the text extensions followed by extra.
func AllowList(extra ...string) []string {
	list := make([]string, 0, len(TextExtensions)+len(extra))
	list = append(list, TextExtensions...)
	return append(list, extra...)
}

// InFolder reports whether p lies under folder. An empty folder matches
// everything. Matching is by whole path segment, so "guide" does not match
// "guides/a.md".
func InFolder(p, folder string) bool {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return true
	}
	return p == folder || strings.HasPrefix(p, folder+"/")
}
