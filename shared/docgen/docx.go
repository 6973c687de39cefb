package docgen

import (
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// writeDocx emits a heading paragraph from the title followed by one
// paragraph per non-empty content line. Blank lines are dropped.
func writeDocx(path, title, content string) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size("28").Bold()

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		doc.AddParagraph().AddText(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = doc.WriteTo(f)
	return err
}
