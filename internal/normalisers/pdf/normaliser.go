// Package pdf extracts text from PDF files locally with pdftotext.
//
// It is the fallback used when the rich extraction service fails. The PDF
// bytes are written to a scoped temporary file that is always removed.
// Each page becomes one document.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// pdftotextBin is the poppler text extraction tool.
const pdftotextBin = "pdftotext"

// maxTitleLength bounds a first line used as a title.
const maxTitleLength = 200

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner    CommandRunner
	pageCount func(path string) (int, error)
}

// New creates a PDF normaliser that shells out to pdftotext.
func New() *Normaliser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{
		runner:    runner,
		pageCount: api.PageCountFile,
	}
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for local PDF extraction.
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEPDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts one document per non-empty page.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	data, err := raw.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty PDF", domain.ErrInvalidInput)
	}

	tmpPath, cleanup, err := writeTemp(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out, err := n.runner.Run(ctx, pdftotextBin, "-enc", "UTF-8", tmpPath, "-")
	if errors.Is(err, ErrPDFToolNotFound) {
		return nil, fmt.Errorf("%w\n%s", err, InstallInstructions())
	}
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	pages := splitPages(string(out))
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoContent, raw.Name)
	}

	title := extractTitle(pages[0].text, raw.Name)
	pageCount := len(pages)
	if n.pageCount != nil {
		if count, err := n.pageCount(tmpPath); err == nil {
			pageCount = count
		} else {
			logger.Debug("pdf: page count for %s: %v", raw.Name, err)
		}
	}

	docs := make([]domain.Document, 0, len(pages))
	for _, page := range pages {
		doc := raw.NewDocument(page.text)
		doc.ID = raw.DocumentID(fmt.Sprintf("page %d", page.number))
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		doc.Metadata["mime_type"] = raw.MIMEType
		doc.Metadata["format"] = "pdf"
		doc.Metadata["title"] = title
		doc.Metadata["page"] = page.number
		doc.Metadata["page_count"] = pageCount
		docs = append(docs, doc)
	}

	return &driven.NormaliseResult{Documents: docs}, nil
}

// writeTemp writes data to a temporary file. The returned cleanup removes it.
func writeTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "reporeader-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}

type page struct {
	number int
	text   string
}

// splitPages splits pdftotext output on form feeds, dropping blank pages.
// Page numbers keep their position in the original document.
func splitPages(out string) []page {
	var pages []page
	for i, text := range strings.Split(out, "\f") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, page{number: i + 1, text: text})
	}
	return pages
}

// extractTitle uses the first short non-empty line, or falls back to the file name.
func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength && !strings.ContainsRune(line, 0) {
			return line
		}
	}

	filename := path.Base(name)
	if ext := path.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
