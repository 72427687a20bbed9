package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// mockReader implements driven.Reader over in-memory listings and files.
type mockReader struct {
	mu sync.Mutex

	listings    map[string][]domain.RemoteFile
	listErrs    map[string]error
	contents    map[string]*domain.RawDocument
	fetchErrs   map[string]error
	validateErr error

	fetched []string
	closed  bool
}

func newMockReader() *mockReader {
	return &mockReader{
		listings:  make(map[string][]domain.RemoteFile),
		listErrs:  make(map[string]error),
		contents:  make(map[string]*domain.RawDocument),
		fetchErrs: make(map[string]error),
	}
}

// addText lists a text file under location and serves its content.
func (m *mockReader) addText(location, path, mimeType, content string) {
	m.listings[location] = append(m.listings[location], domain.RemoteFile{
		Reader: "MockReader", Location: location, Path: path,
	})
	m.contents[path] = &domain.RawDocument{
		Reader:   "MockReader",
		Name:     path,
		Path:     path,
		Link:     "https://example.com/" + path,
		MIMEType: mimeType,
		Content:  content,
	}
}

// addBinary lists a binary file under location and serves its content.
func (m *mockReader) addBinary(location, path, mimeType string, content []byte) {
	m.addText(location, path, mimeType, domain.EncodeBinary(content))
	m.contents[path].Binary = true
}

func (m *mockReader) Type() string         { return "mock" }
func (m *mockReader) Name() string         { return "MockReader" }
func (m *mockReader) Extensions() []string { return []string{".md", ".txt", ".json", ".pdf"} }

func (m *mockReader) Validate(_ context.Context) error {
	return m.validateErr
}

func (m *mockReader) ListFiles(ctx context.Context, location string) ([]domain.RemoteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.listErrs[location]; ok {
		return m.listings[location], err
	}
	return m.listings[location], nil
}

func (m *mockReader) FetchFile(ctx context.Context, file domain.RemoteFile) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.fetched = append(m.fetched, file.Path)
	m.mu.Unlock()

	if err, ok := m.fetchErrs[file.Path]; ok {
		return nil, err
	}
	raw, ok := m.contents[file.Path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *raw
	return &clone, nil
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}

// mockFactory implements driven.ReaderFactory with a single reader.
type mockFactory struct {
	reader    driven.Reader
	createErr error
}

func (f *mockFactory) Create(_ context.Context, readerType string) (driven.Reader, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if readerType != "mock" {
		return nil, domain.ErrUnsupportedType
	}
	return f.reader, nil
}

func (f *mockFactory) Register(_ string, _ driven.ReaderBuilder) {}

func (f *mockFactory) SupportedTypes() []string { return []string{"mock"} }

// mockExtractor implements driven.Extractor.
type mockExtractor struct {
	mu    sync.Mutex
	docs  []domain.Document
	err   error
	calls int
}

func (e *mockExtractor) Name() string { return "mock-extractor" }

func (e *mockExtractor) Extract(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	docs := make([]domain.Document, len(e.docs))
	for i, d := range e.docs {
		d.Name = raw.Name
		docs[i] = d
	}
	return docs, nil
}

// stubNormaliser implements driven.Normaliser with fixed behaviour.
type stubNormaliser struct {
	mu        sync.Mutex
	mimeTypes []string
	priority  int
	text      string
	err       error
	calls     int
}

func (n *stubNormaliser) SupportedMIMETypes() []string { return n.mimeTypes }
func (n *stubNormaliser) Priority() int                { return n.priority }

func (n *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	doc := raw.NewDocument(n.text)
	doc.ID = "stub-" + raw.Name
	return &driven.NormaliseResult{Documents: []domain.Document{doc}}, nil
}

var errBoom = errors.New("boom")
