package docgen

import (
	"bytes"
	"fmt"
	"html"

	epub "github.com/go-shiori/go-epub"
	"github.com/yuin/goldmark"
)

// writeEpub packages the content as a single-chapter e-book. The content
// is converted from its lightweight markup to XHTML; the table of
// contents gets one entry pointing at that chapter.
func writeEpub(path, title, content string) error {
	book, err := epub.NewEpub(title)
	if err != nil {
		return err
	}
	book.SetLang("es")

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(content), &body); err != nil {
		return fmt.Errorf("markdown conversion failed: %w", err)
	}

	chapter := fmt.Sprintf("<h1>%s</h1>%s", html.EscapeString(title), body.String())
	if _, err := book.AddSection(chapter, "Content", "content.xhtml", ""); err != nil {
		return err
	}

	return book.Write(path)
}
