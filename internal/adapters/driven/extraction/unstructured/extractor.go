// Package unstructured provides an Extractor backed by an
// Unstructured-compatible document partitioning API.
package unstructured

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL  = "https://api.unstructured.io"
	DefaultTimeout  = 120 * time.Second
	DefaultStrategy = "auto"

	partitionPath = "/general/v0/general"
	apiKeyHeader  = "unstructured-api-key"
)

// Config holds configuration for the extraction service.
type Config struct {
	// BaseURL is the service base URL (default: https://api.unstructured.io
	// when only an API key is set).
	BaseURL string

	// APIKey is sent in the unstructured-api-key header.
	APIKey string

	// Strategy is the partitioning strategy (default: auto).
	Strategy string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Extractor sends binary documents to the partition endpoint and groups
// the returned elements into one document per page.
type Extractor struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	strategy string
}

// element is one partitioned element in the API response.
type element struct {
	Type     string          `json:"type"`
	Text     string          `json:"text"`
	Metadata elementMetadata `json:"metadata"`
}

type elementMetadata struct {
	PageNumber int    `json:"page_number"`
	Filename   string `json:"filename"`
}

// New creates a new extractor. An empty config yields an extractor that
// reports ErrExtractionUnavailable.
func New(cfg Config) *Extractor {
	if cfg.BaseURL == "" && cfg.APIKey != "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		strategy: cfg.Strategy,
	}
}

// FromSettings creates an extractor from the extraction settings.
func FromSettings(s domain.ExtractionSettings, timeout time.Duration) *Extractor {
	return New(Config{BaseURL: s.URL, APIKey: s.APIKey, Timeout: timeout})
}

// Name returns the extractor name for logging.
func (e *Extractor) Name() string {
	return "unstructured"
}

// Configured reports whether the extractor has an endpoint.
func (e *Extractor) Configured() bool {
	return e.baseURL != ""
}

// Extract partitions the raw content and returns one document per page.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !e.Configured() {
		return nil, domain.ErrExtractionUnavailable
	}

	data, err := raw.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	elements, err := e.partition(ctx, path.Base(raw.Name), data)
	if err != nil {
		return nil, err
	}

	docs := pagesToDocuments(raw, elements)
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no text extracted from %s", domain.ErrNoContent, raw.Name)
	}
	return docs, nil
}

// partition uploads the file and decodes the element list.
func (e *Extractor) partition(ctx context.Context, filename string, data []byte) ([]element, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.WriteField("strategy", e.strategy); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+partitionPath, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set(apiKeyHeader, e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %w", domain.ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("%w: status %d (failed to read response)",
				domain.ErrExtractionUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrExtractionUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var elements []element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return elements, nil
}

// pagesToDocuments groups element text by page number, in page order.
// Elements without a page number are attributed to page 1.
func pagesToDocuments(raw *domain.RawDocument, elements []element) []domain.Document {
	pages := make(map[int][]string)
	for _, el := range elements {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}
		page := el.Metadata.PageNumber
		if page < 1 {
			page = 1
		}
		pages[page] = append(pages[page], text)
	}

	numbers := make([]int, 0, len(pages))
	for n := range pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	docs := make([]domain.Document, 0, len(numbers))
	if len(numbers) == 0 {
		return docs
	}
	pageCount := numbers[len(numbers)-1]
	for _, n := range numbers {
		doc := raw.NewDocument(strings.Join(pages[n], "\n\n"))
		doc.ID = raw.DocumentID(fmt.Sprintf("page %d", n))
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		doc.Metadata["mime_type"] = raw.MIMEType
		doc.Metadata["page"] = n
		doc.Metadata["page_count"] = pageCount
		doc.Metadata["extractor"] = "unstructured"
		docs = append(docs, doc)
	}
	return docs
}
