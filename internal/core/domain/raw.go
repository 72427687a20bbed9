package domain

import (
	"encoding/base64"
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"
)

// documentNamespace scopes name-based document IDs.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://reporeader.dev/document"))

// RemoteFile is a file reference produced by a reader's tree listing.
// It lives only for the duration of one load.
type RemoteFile struct {
	// Reader is the name of the reader that listed the file.
	Reader string

	// Location is the location string the file was listed from. It carries
	// the addressing coordinates (owner/repo/branch or project/branch).
	Location string

	// Path is the repository path of the file.
	Path string
}

// RawDocument is the content fetched for one RemoteFile.
// It is the reader's output before assembly into documents.
type RawDocument struct {
	// Reader is the name of the reader that fetched the content.
	Reader string

	// URI is a stable identifier (e.g. github://owner/repo/blob/main/a.md).
	URI string

	// Name is the file path as listed.
	Name string

	// Path is the repository path reported by the host.
	Path string

	// Link is the human-facing web URL.
	Link string

	// MIMEType is the detected content type (e.g. "application/pdf").
	MIMEType string

	// DocType is the caller-declared document type.
	DocType string

	// Content is decoded text, or standard base64 when Binary is set.
	Content string

	// Binary marks Content as base64-encoded bytes.
	Binary bool

	// Metadata contains reader-specific key-value pairs.
	Metadata map[string]any
}

// Bytes returns the raw bytes of the content, decoding base64 for binary content.
func (r *RawDocument) Bytes() ([]byte, error) {
	if !r.Binary {
		return []byte(r.Content), nil
	}
	b, err := base64.StdEncoding.DecodeString(r.Content)
	if err != nil {
		return nil, fmt.Errorf("decode base64 content: %w", err)
	}
	return b, nil
}

// EncodeBinary returns the base64 transport form of b.
func EncodeBinary(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DocumentID returns the ID of the document r yields for part. It depends
// only on the reader, link, path and part, so refetching a file reproduces
// the same IDs. part is empty for single-document files and names the page
// or chapter otherwise.
func (r *RawDocument) DocumentID(part string) string {
	name := strings.Join([]string{r.Reader, r.Link, r.Path, part}, "\x00")
	return uuid.NewSHA1(documentNamespace, []byte(name)).String()
}

// NewDocument builds a document for r carrying text, stamped with the
// current time. Readers that fan out to several documents replace the ID
// with DocumentID of the page or chapter.
func (r *RawDocument) NewDocument(text string) Document {
	docType := r.DocType
	if docType == "" {
		docType = DefaultDocumentType
	}
	return Document{
		ID:        r.DocumentID(""),
		Text:      text,
		Type:      docType,
		Name:      r.Name,
		Link:      r.Link,
		Path:      r.Path,
		Timestamp: Now(),
		Reader:    r.Reader,
		Metadata:  maps.Clone(r.Metadata),
	}
}
