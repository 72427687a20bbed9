// Package epub extracts chapter text from EPUB books locally.
//
// The container and package documents are read with encoding/xml to find
// the spine; each chapter's XHTML is reduced to text with goquery. Books
// whose package document cannot be read fall back to every XHTML file in
// archive order. Each non-empty chapter becomes one document.
package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
)

// containerPath is the fixed location of the EPUB container document.
const containerPath = "META-INF/container.xml"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EPUB documents.
type Normaliser struct{}

// New creates a new EPUB normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMEEPUB}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts one document per non-empty chapter.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	data, err := raw.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	// Open as ZIP archive
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not an EPUB archive: %w", domain.ErrInvalidInput, err)
	}

	book := readBook(reader)
	if len(book.chapters) == 0 {
		return nil, fmt.Errorf("%w: no chapters in %s", domain.ErrNoContent, raw.Name)
	}

	title := book.title
	if title == "" {
		title = titleFromName(raw.Name)
	}

	docs := make([]domain.Document, 0, len(book.chapters))
	for _, ch := range book.chapters {
		doc := raw.NewDocument(ch.text)
		doc.ID = raw.DocumentID(fmt.Sprintf("chapter %d", ch.index))
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any)
		}
		doc.Metadata["mime_type"] = raw.MIMEType
		doc.Metadata["format"] = "epub"
		doc.Metadata["title"] = title
		doc.Metadata["chapter"] = ch.index
		doc.Metadata["chapter_file"] = ch.file
		if ch.title != "" {
			doc.Metadata["chapter_title"] = ch.title
		}
		if book.author != "" {
			doc.Metadata["author"] = book.author
		}
		docs = append(docs, doc)
	}

	return &driven.NormaliseResult{Documents: docs}, nil
}

type book struct {
	title    string
	author   string
	chapters []chapter
}

type chapter struct {
	index int
	file  string
	title string
	text  string
}

// readBook reads chapters in spine order, or every XHTML file in archive
// order when the package document is missing or unreadable.
func readBook(reader *zip.Reader) book {
	files := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		files[f.Name] = f
	}

	var b book
	hrefs, err := spine(files, &b)
	if err != nil || len(hrefs) == 0 {
		hrefs = htmlFiles(reader)
	}

	for _, href := range hrefs {
		f, ok := files[href]
		if !ok {
			continue
		}
		content, err := readFile(f)
		if err != nil {
			continue
		}
		chTitle, text, err := chapterText(content)
		if err != nil || text == "" {
			continue
		}
		b.chapters = append(b.chapters, chapter{
			index: len(b.chapters) + 1,
			file:  href,
			title: chTitle,
			text:  text,
		})
	}
	return b
}

// containerXML represents META-INF/container.xml.
type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packageXML represents the OPF package document.
type packageXML struct {
	Title    []string `xml:"metadata>title"`
	Creators []string `xml:"metadata>creator"`
	Manifest []struct {
		ID   string `xml:"id,attr"`
		Href string `xml:"href,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef  string `xml:"idref,attr"`
		Linear string `xml:"linear,attr"`
	} `xml:"spine>itemref"`
}

var errNoPackage = errors.New("epub: no package document")

// spine returns archive paths of the chapters in reading order and fills
// in the book metadata.
func spine(files map[string]*zip.File, b *book) ([]string, error) {
	cf, ok := files[containerPath]
	if !ok {
		return nil, errNoPackage
	}
	content, err := readFile(cf)
	if err != nil {
		return nil, err
	}

	var container containerXML
	if err := xml.Unmarshal(content, &container); err != nil {
		return nil, err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, errNoPackage
	}

	opfPath := container.Rootfiles[0].FullPath
	of, ok := files[opfPath]
	if !ok {
		return nil, errNoPackage
	}
	content, err = readFile(of)
	if err != nil {
		return nil, err
	}

	var pkg packageXML
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}

	if len(pkg.Title) > 0 {
		b.title = strings.TrimSpace(pkg.Title[0])
	}
	if len(pkg.Creators) > 0 {
		b.author = strings.TrimSpace(pkg.Creators[0])
	}

	manifest := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		manifest[item.ID] = item.Href
	}

	base := path.Dir(opfPath)
	hrefs := make([]string, 0, len(pkg.Spine))
	for _, ref := range pkg.Spine {
		if ref.Linear == "no" {
			continue
		}
		href, ok := manifest[ref.IDRef]
		if !ok {
			continue
		}
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}
		hrefs = append(hrefs, path.Clean(path.Join(base, href)))
	}
	return hrefs, nil
}

// htmlFiles lists XHTML and HTML files sorted by name.
func htmlFiles(reader *zip.Reader) []string {
	var names []string
	for _, f := range reader.File {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xhtml", ".html", ".htm":
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// blockElements start a new line in extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "section": true, "article": true,
}

var multiSpaces = regexp.MustCompile(`[ \t\x{00a0}]+`)

// chapterText returns a chapter's heading and its readable text.
func chapterText(content []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", "", err
	}

	title := strings.TrimSpace(doc.Find("h1, h2").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var b strings.Builder
	writeText(doc.Find("body"), &b)

	// Trim each line and remove empty lines
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return multiSpaces.ReplaceAllString(title, " "), strings.Join(lines, "\n"), nil
}

// writeText appends the text under sel, breaking lines at block elements.
func writeText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch name {
		case "#text":
			b.WriteString(s.Text())
			return
		case "#comment", "script", "style", "noscript", "svg":
			return
		}

		block := blockElements[name]
		if block {
			b.WriteString("\n")
		}
		writeText(s, b)
		if block {
			b.WriteString("\n")
		}
	})
}

// titleFromName derives a title from the file name.
func titleFromName(name string) string {
	filename := path.Base(name)
	if ext := path.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
