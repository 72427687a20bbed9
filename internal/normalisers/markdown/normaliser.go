// Package markdown normalises Markdown and MDX files. The text is kept
// verbatim; the title is lifted into metadata from front matter or the
// first H1 heading.
package markdown

import (
	"context"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEMarkdown, "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise wraps a markdown document verbatim in one document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if raw.Binary {
		return nil, fmt.Errorf("%w: binary markdown content", domain.ErrUnsupportedType)
	}

	matter, body := splitFrontMatter(raw.Content)

	doc := raw.NewDocument(raw.Content)

	// Add MIME type and format info to metadata
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["format"] = "markdown"
	doc.Metadata["title"] = extractMarkdownTitle(matter, body, raw.Name)
	if desc, ok := matter["description"].(string); ok && desc != "" {
		doc.Metadata["description"] = desc
	}

	return &driven.NormaliseResult{
		Documents: []domain.Document{doc},
	}, nil
}

// splitFrontMatter separates a leading YAML front matter block from the body.
// Malformed front matter is treated as body text.
func splitFrontMatter(content string) (map[string]any, string) {
	normalised := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalised, "---\n") {
		return nil, content
	}

	rest := normalised[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return nil, content
	}

	var matter map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &matter); err != nil {
		return nil, content
	}

	body := rest[end+len("\n---"):]
	return matter, strings.TrimPrefix(body, "\n")
}

// extractMarkdownTitle picks the front matter title, then the first H1
// heading, then the file name.
func extractMarkdownTitle(matter map[string]any, body, name string) string {
	if title, ok := matter["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	// Try to find first H1 heading (# Title)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	// Fall back to filename
	filename := path.Base(name)
	if ext := path.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
