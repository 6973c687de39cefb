package docgen

import (
	"os"

	"github.com/nao1215/markdown"
)

// writeMarkdown emits a single header line, the metadata block and the raw
// section content.
func writeMarkdown(path, title, metaBlock, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)
	md.H1(title)
	md.PlainText("")
	md.PlainText(metaBlock + content)
	return md.Build()
}
