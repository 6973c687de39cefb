// Package docgen renders analysis sections into downloadable artifacts:
// Markdown, DOCX, PDF and EPUB for the rich sections (summary, guide),
// plain text for transcriptions. All artifacts for one request share a
// sanitized base filename and live in the request's own output directory.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"videoscribe/internal/models"

	"github.com/nao1215/markdown"
)

// downloadRoute is the HTTP route the server mounts the output root on.
// Returned paths are relative to it, never absolute filesystem paths.
const downloadRoute = "/download"

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

// richSections are rendered in all four formats; the map key doubles as
// the artifact key prefix.
var richSections = []struct {
	key    string
	suffix string
}{
	{"summary", "Summary"},
	{"guide", "Didactic Guide"},
}

// transcriptSections get a single plain-text artifact keyed without a
// format suffix.
var transcriptSections = []struct {
	key      string
	fileStem string
}{
	{"transcription_orig", "transcription_original"},
	{"transcription_es", "transcription_es"},
}

// Generate writes every artifact for the sections present in results and
// returns their download paths. Emission is governed by presence in
// results; the analyzer already filtered sections down to the requested
// options. The first render error aborts the whole call with whatever was
// already written left on disk.
func (g *Generator) Generate(results models.AnalysisResult, meta *models.VideoMetadata, outputDir string, options []string) (models.GeneratedFileSet, error) {
	if err := g.appendRequestLog(outputDir, meta); err != nil {
		return nil, fmt.Errorf("failed to update request log: %w", err)
	}

	base := baseFilename(meta.Title, meta.UploadDate)
	reportDate := time.Now().Format("2006-01-02")

	keywords, ok := results["keywords"]
	if !ok || keywords == "" {
		keywords = "No keywords generated."
	}
	metaBlock := metadataBlock(meta, keywords, reportDate)

	files := make(models.GeneratedFileSet)
	add := func(key, path string) {
		files[key] = downloadRoute + "/" + filepath.Base(outputDir) + "/" + filepath.Base(path)
	}

	for _, s := range richSections {
		content, ok := results[s.key]
		if !ok {
			continue
		}

		mdPath := filepath.Join(outputDir, base+"_"+s.key+".md")
		if err := writeMarkdown(mdPath, meta.Title+" - "+s.suffix, metaBlock, content); err != nil {
			return nil, fmt.Errorf("failed to render %s markdown: %w", s.key, err)
		}
		add(s.key+"_md", mdPath)

		docxPath := filepath.Join(outputDir, base+"_"+s.key+".docx")
		if err := writeDocx(docxPath, meta.Title+" - "+s.suffix, metaBlock+content); err != nil {
			return nil, fmt.Errorf("failed to render %s docx: %w", s.key, err)
		}
		add(s.key+"_docx", docxPath)

		pdfPath := filepath.Join(outputDir, base+"_"+s.key+".pdf")
		if err := writePDF(pdfPath, s.suffix+": "+meta.Title, content, meta, keywords, reportDate); err != nil {
			return nil, fmt.Errorf("failed to render %s pdf: %w", s.key, err)
		}
		add(s.key+"_pdf", pdfPath)

		epubPath := filepath.Join(outputDir, base+"_"+s.key+".epub")
		if err := writeEpub(epubPath, s.suffix+": "+meta.Title, metaBlock+content); err != nil {
			return nil, fmt.Errorf("failed to render %s epub: %w", s.key, err)
		}
		add(s.key+"_epub", epubPath)
	}

	for _, s := range transcriptSections {
		content, ok := results[s.key]
		if !ok {
			continue
		}
		path := filepath.Join(outputDir, base+"_"+s.fileStem+".txt")
		if err := os.WriteFile(path, []byte(metaBlock+content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", s.key, err)
		}
		add(s.key, path)
	}

	return files, nil
}

// appendRequestLog records the request in a single table shared across all
// requests, one row each, in the parent of the per-request directory. The
// file is created with its header the first time.
func (g *Generator) appendRequestLog(outputDir string, meta *models.VideoMetadata) error {
	logPath := filepath.Join(filepath.Dir(outputDir), "request_log.md")

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		md := markdown.NewMarkdown(f)
		md.H1("Video Request Log")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Date", "Video"}})
		if err := md.Build(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "| %s | [%s](%s) |\n",
		time.Now().Format("2006-01-02 15:04"), meta.Title, meta.WebpageURL)
	return err
}

// baseFilename derives a filesystem-safe stem from the first 30 runes of
// the title plus the upload date: spaces fold to underscores, everything
// but alphanumerics, '_' and '-' is dropped.
func baseFilename(title, uploadDate string) string {
	runes := []rune(title)
	if len(runes) > 30 {
		runes = runes[:30]
	}

	var b strings.Builder
	for _, r := range append(runes, []rune("_"+uploadDate)...) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// metadataBlock is the plain-text preamble shared by the markdown, docx
// and txt artifacts.
func metadataBlock(meta *models.VideoMetadata, keywords, reportDate string) string {
	return fmt.Sprintf(
		"Title: %s\nURL: %s\nAuthor: %s\nUpload Date: %s\nReport Date: %s\nKeywords: %s\n%s\n\n",
		meta.Title, meta.WebpageURL, meta.Uploader, meta.UploadDate, reportDate, keywords,
		strings.Repeat("-", 40))
}
