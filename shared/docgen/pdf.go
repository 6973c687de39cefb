package docgen

import (
	"fmt"
	"strings"

	"videoscribe/internal/models"

	"github.com/go-pdf/fpdf"
)

// cleanForPDF restores literal line-break markers as real newlines before
// the text is handed to the PDF engine. fpdf takes plain text (no markup
// to escape), so the break markers are the only transformation left.
func cleanForPDF(text string) string {
	text = strings.ReplaceAll(text, "<br/>", "\n")
	return strings.ReplaceAll(text, "<br>", "\n")
}

// writePDF builds the paginated artifact: title block, metadata key/value
// lines, a visual separator, then the content reflowed line by line with
// markdown-style heading markers mapped to three heading levels and "- "
// prefixes rendered as bullets. Every page carries a running header
// (document name left, current date right) and a centered page-number
// footer.
func writePDF(path, docName, content string, meta *models.VideoMetadata, keywords, reportDate string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetY(8)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(80, 6, tr(docName), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 6)
		pdf.CellFormat(80, 6, reportDate, "", 0, "R", false, 0, "")
		pdf.Ln(12)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(cleanForPDF(meta.Title)), "", "C", false)
	pdf.Ln(4)

	metaLines := []struct{ label, value string }{
		{"URL", meta.WebpageURL},
		{"Author", meta.Uploader},
		{"Date", meta.UploadDate},
		{"Report Date", reportDate},
		{"Keywords", keywords},
	}
	for _, m := range metaLines {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Write(5, tr(m.label+": "))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Write(5, tr(cleanForPDF(m.value)))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, strings.Repeat("_", 50), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(cleanForPDF(strings.TrimPrefix(line, "### "))), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 6, tr(cleanForPDF(strings.TrimPrefix(line, "## "))), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Helvetica", "B", 15)
			pdf.MultiCell(0, 7, tr(cleanForPDF(strings.TrimPrefix(line, "# "))), "", "L", false)
			pdf.Ln(2)
		case strings.HasPrefix(line, "- "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanForPDF(strings.TrimPrefix(line, "- "))), "", "J", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanForPDF(line)), "", "J", false)
		}
	}

	return pdf.OutputFileAndClose(path)
}
