package domain

// MIME types the document assembler dispatches on.
const (
	MIMEPlainText = "text/plain"
	MIMEMarkdown  = "text/markdown"
	MIMEJSON      = "application/json"
	MIMEPDF       = "application/pdf"
	MIMEEPUB      = "application/epub+zip"
)
