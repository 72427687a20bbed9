package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/normalisers"
	"github.com/custodia-labs/reporeader/internal/normalisers/markdown"
	"github.com/custodia-labs/reporeader/internal/normalisers/pdf"
	"github.com/custodia-labs/reporeader/internal/normalisers/plaintext"
	"github.com/custodia-labs/reporeader/internal/normalisers/structured"
	"github.com/custodia-labs/reporeader/internal/postprocessors"
	"github.com/custodia-labs/reporeader/internal/postprocessors/chunker"
)

// failingRunner makes the local PDF fallback fail.
type failingRunner struct{}

func (failingRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return nil, pdf.ErrPDFToolNotFound
}

func newTestLoader(reader *mockReader, extractor *mockExtractor, opts ...LoaderOption) *Loader {
	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		structured.New(),
		pdf.NewWithRunner(failingRunner{}),
	)
	// A nil *mockExtractor must stay a nil interface
	var ext driven.Extractor
	if extractor != nil {
		ext = extractor
	}
	return NewLoader(&mockFactory{reader: reader}, NewAssembler(registry, ext), opts...)
}

func TestLoader_GuideFolder(t *testing.T) {
	reader := newMockReader()
	reader.addText("acme/docs/main/guide", "guide/intro.md", domain.MIMEMarkdown, "# Intro\nWelcome")
	reader.addText("acme/docs/main/guide", "guide/faq.txt", domain.MIMEPlainText, "Q and A")

	docs, report, err := newTestLoader(reader, nil).Load(
		context.Background(), "mock", []string{"acme/docs/main/guide"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "guide/intro.md", docs[0].Name)
	assert.Equal(t, "# Intro\nWelcome", docs[0].Text)
	assert.Equal(t, "guide/faq.txt", docs[1].Name)
	for _, doc := range docs {
		assert.Equal(t, domain.DefaultDocumentType, doc.Type)
		assert.Equal(t, "MockReader", doc.Reader)
		assert.NotEmpty(t, doc.ID)
	}

	assert.Equal(t, 1, report.Locations)
	assert.Equal(t, 2, report.Listed)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, 2, report.Documents)
	assert.Empty(t, report.Skipped)
	assert.True(t, reader.closed)
}

func TestLoader_DocumentType(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "x")

	docs, _, err := newTestLoader(reader, nil).Load(context.Background(), "mock", []string{"o/r"}, "Blog")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Blog", docs[0].Type)
}

func TestLoader_InvalidStructuredJSONSkipped(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.json", domain.MIMEJSON, `{"text":"one","name":"One"}`)
	reader.addText("o/r", "b.json", domain.MIMEJSON, `{"text": broken`)
	reader.addText("o/r", "c.md", domain.MIMEMarkdown, "three")

	docs, report, err := newTestLoader(reader, nil).Load(context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "One", docs[0].Name)
	assert.Equal(t, "c.md", docs[1].Name)

	assert.Equal(t, 3, report.Listed)
	assert.Equal(t, 2, report.Loaded)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "b.json", report.Skipped[0].Path)
	assert.Equal(t, "o/r", report.Skipped[0].Location)
}

func TestLoader_PDFDoubleFailure(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "before.txt", domain.MIMEPlainText, "before")
	reader.addBinary("o/r", "paper.pdf", domain.MIMEPDF, []byte("%PDF-1.4 broken"))
	reader.addText("o/r", "after.txt", domain.MIMEPlainText, "after")
	extractor := &mockExtractor{err: domain.ErrExtractionUnavailable}

	docs, report, err := newTestLoader(reader, extractor).Load(context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "before", docs[0].Text)
	assert.Equal(t, "after", docs[1].Text)
	assert.Equal(t, 1, extractor.calls)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "paper.pdf", report.Skipped[0].Path)
	assert.Contains(t, report.Skipped[0].Reason, "pdftotext")
	assert.Contains(t, report.Skipped[0].Reason, "poppler")
}

func TestLoader_PDFExtracted(t *testing.T) {
	reader := newMockReader()
	reader.addBinary("o/r", "paper.pdf", domain.MIMEPDF, []byte("%PDF-1.4"))
	extractor := &mockExtractor{docs: []domain.Document{{Text: "p1"}, {Text: "p2"}}}

	docs, report, err := newTestLoader(reader, extractor).Load(context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, 2, report.Documents)
}

func TestLoader_EmptyFolder(t *testing.T) {
	reader := newMockReader()

	docs, report, err := newTestLoader(reader, nil).Load(context.Background(), "mock", []string{"o/r/main/empty"}, "")

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 1, report.Locations)
	assert.Zero(t, report.Listed)
	assert.Empty(t, report.Skipped)
}

func TestLoader_FetchFailureSkipped(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "a")
	reader.addText("o/r", "b.txt", domain.MIMEPlainText, "b")
	reader.fetchErrs["a.txt"] = errBoom

	docs, report, err := newTestLoader(reader, nil).Load(context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Text)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0].Reason, "boom")
}

func TestLoader_LocationFailures(t *testing.T) {
	reader := newMockReader()
	reader.listErrs["bad"] = fmt.Errorf("%w: need owner/repo", domain.ErrInvalidLocation)
	reader.listErrs["missing/repo"] = domain.ErrNotFound
	reader.addText("good/repo", "a.txt", domain.MIMEPlainText, "a")

	docs, report, err := newTestLoader(reader, nil).Load(
		context.Background(), "mock", []string{"bad", "missing/repo", "", "  ", "good/repo"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 3, report.Locations)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "bad", report.Skipped[0].Location)
	assert.Empty(t, report.Skipped[0].Path)
	assert.Contains(t, report.Skipped[0].Reason, "invalid location")
	assert.Equal(t, "missing/repo", report.Skipped[1].Location)
}

func TestLoader_PartialListing(t *testing.T) {
	reader := newMockReader()
	reader.addText("group/docs/main", "a.md", domain.MIMEMarkdown, "a")
	reader.listErrs["group/docs/main"] = &domain.PartialListingError{
		Failed: []domain.FolderError{{Folder: "private", Err: errBoom}},
	}

	docs, report, err := newTestLoader(reader, nil).Load(context.Background(), "mock", []string{"group/docs/main"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 1, report.Listed)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "private", report.Skipped[0].Path)
}

func TestLoader_PreservesListingOrder(t *testing.T) {
	reader := newMockReader()
	for i := 0; i < 25; i++ {
		reader.addText("o/r", fmt.Sprintf("f%02d.txt", i), domain.MIMEPlainText, fmt.Sprintf("%d", i))
	}
	reader.addText("other/repo", "z.txt", domain.MIMEPlainText, "z")

	docs, report, err := newTestLoader(reader, nil, WithWorkers(8)).Load(
		context.Background(), "mock", []string{"o/r", "other/repo"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 26)
	for i := 0; i < 25; i++ {
		assert.Equal(t, fmt.Sprintf("f%02d.txt", i), docs[i].Name)
	}
	assert.Equal(t, "z.txt", docs[25].Name)
	assert.Equal(t, 2, report.Locations)
	assert.Len(t, reader.fetched, 26)
}

func TestLoader_Progress(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "a")
	reader.addText("o/r", "b.txt", domain.MIMEPlainText, "b")
	reader.fetchErrs["b.txt"] = errBoom

	var completed []string
	var failures int
	progress := func(file domain.RemoteFile, err error) {
		completed = append(completed, file.Path)
		if err != nil {
			failures++
		}
	}

	_, _, err := newTestLoader(reader, nil, WithWorkers(2), WithProgress(progress)).Load(
		context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, completed)
	assert.Equal(t, 1, failures)
}

func TestLoader_Cancelled(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, _, err := newTestLoader(reader, nil).Load(ctx, "mock", []string{"o/r"}, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, docs)
}

func TestLoader_UnknownReader(t *testing.T) {
	_, _, err := newTestLoader(newMockReader(), nil).Load(context.Background(), "bitbucket", []string{"o/r"}, "")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestLoader_Validation(t *testing.T) {
	reader := newMockReader()
	reader.validateErr = domain.ErrAuthInvalid

	_, _, err := newTestLoader(reader, nil, WithValidation(true)).Load(context.Background(), "mock", []string{"o/r"}, "")

	assert.ErrorIs(t, err, domain.ErrReaderValidation)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestLoader_NotConfigured(t *testing.T) {
	_, _, err := NewLoader(nil, nil).Load(context.Background(), "mock", nil, "")
	assert.Error(t, err)

	_, _, err = NewLoader(&mockFactory{reader: newMockReader()}, nil).Load(context.Background(), "mock", nil, "")
	assert.Error(t, err)
}

func TestLoader_Idempotent(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.md", domain.MIMEMarkdown, "# A\nbody")
	loader := newTestLoader(reader, nil)

	first, _, err := loader.Load(context.Background(), "mock", []string{"o/r"}, "")
	require.NoError(t, err)
	second, _, err := loader.Load(context.Background(), "mock", []string{"o/r"}, "")
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	first[0].Timestamp, second[0].Timestamp = "", ""
	assert.Equal(t, first[0], second[0])
}

func TestNewLoader_Workers(t *testing.T) {
	assert.Equal(t, domain.DefaultWorkers, NewLoader(nil, nil).workers)
	assert.Equal(t, 1, NewLoader(nil, nil, WithWorkers(0)).workers)
	assert.Equal(t, 7, NewLoader(nil, nil, WithWorkers(7)).workers)
}

// failingProcessor always fails.
type failingProcessor struct{}

func (failingProcessor) Name() string { return "failing" }

func (failingProcessor) Process(_ context.Context, _ *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return nil, errBoom
}

func TestLoader_PostProcessing(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "abcdefghij")
	reader.addText("o/r", "b.json", domain.MIMEJSON,
		`{"text": "whole", "chunks": [{"chunk_id": 0, "text": "given"}]}`)
	pipeline := postprocessors.NewPipeline(chunker.New(chunker.WithChunkSize(4), chunker.WithOverlap(0)))

	docs, report, err := newTestLoader(reader, nil, WithPostProcessing(pipeline)).Load(
		context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Len(t, docs[0].Chunks, 3)
	assert.Equal(t, "ij", docs[0].Chunks[2].Text)
	require.Len(t, docs[1].Chunks, 1)
	assert.Equal(t, "given", docs[1].Chunks[0].Text)
	assert.Empty(t, report.Skipped)
}

func TestLoader_PostProcessingFailureSkipsFile(t *testing.T) {
	reader := newMockReader()
	reader.addText("o/r", "a.txt", domain.MIMEPlainText, "text")
	pipeline := postprocessors.NewPipeline(failingProcessor{})

	docs, report, err := newTestLoader(reader, nil, WithPostProcessing(pipeline)).Load(
		context.Background(), "mock", []string{"o/r"}, "")

	require.NoError(t, err)
	assert.Empty(t, docs)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0].Reason, "post-process")
}
