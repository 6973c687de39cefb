package docgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videoscribe/internal/models"
)

func testMeta() *models.VideoMetadata {
	return &models.VideoMetadata{
		Title:      "Test Video",
		UploadDate: "20240101",
		Thumbnail:  "https://example.test/thumb.jpg",
		WebpageURL: "https://example.test/watch",
		Uploader:   "Tester",
	}
}

func TestBaseFilename(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		uploadDate string
		want       string
	}{
		{
			name:       "spaces folded to underscores",
			title:      "My Great Video",
			uploadDate: "20240101",
			want:       "My_Great_Video_20240101",
		},
		{
			name:       "special characters dropped",
			title:      "What?! A video: part 2",
			uploadDate: "20240101",
			want:       "What_A_video_part_2_20240101",
		},
		{
			name:       "title truncated at 30 runes",
			title:      strings.Repeat("a", 40),
			uploadDate: "20240101",
			want:       strings.Repeat("a", 30) + "_20240101",
		},
		{
			name:       "hyphens and underscores kept",
			title:      "go-lang_tips",
			uploadDate: "20231231",
			want:       "go-lang_tips_20231231",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseFilename(tt.title, tt.uploadDate); got != tt.want {
				t.Errorf("baseFilename(%q, %q) = %q, want %q", tt.title, tt.uploadDate, got, tt.want)
			}
		})
	}
}

func TestGenerateRichSectionArtifacts(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "Test_Video_abc123")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}

	results := models.AnalysisResult{
		"keywords": "foo, bar",
		"summary":  "Hello world.",
		"guide":    "# Intro\n- first point\nBody text.",
	}

	files, err := New().Generate(results, testMeta(), outputDir, []string{"summary", "guide"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, section := range []string{"summary", "guide"} {
		for _, format := range []string{"_md", "_docx", "_pdf", "_epub"} {
			key := section + format
			path, ok := files[key]
			if !ok {
				t.Errorf("missing artifact key %q", key)
				continue
			}
			wantPrefix := "/download/Test_Video_abc123/"
			if !strings.HasPrefix(path, wantPrefix) {
				t.Errorf("artifact %q path = %q, want prefix %q", key, path, wantPrefix)
			}
			onDisk := filepath.Join(outputDir, filepath.Base(path))
			if _, err := os.Stat(onDisk); err != nil {
				t.Errorf("artifact %q not written to disk: %v", key, err)
			}
		}
	}

	if len(files) != 8 {
		t.Errorf("file set has %d keys, want 8: %v", len(files), files)
	}
}

func TestGenerateTranscriptionArtifacts(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "Test_Video_abc123")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}

	results := models.AnalysisResult{
		"keywords":           "k1, k2",
		"transcription_orig": "Speaker A: hello",
		"transcription_es":   "Hablante A: hola",
	}

	files, err := New().Generate(results, testMeta(), outputDir, []string{"transcription_orig", "transcription_es"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("file set has %d keys, want 2: %v", len(files), files)
	}
	for key, stem := range map[string]string{
		"transcription_orig": "_transcription_original.txt",
		"transcription_es":   "_transcription_es.txt",
	} {
		path, ok := files[key]
		if !ok {
			t.Errorf("missing artifact key %q", key)
			continue
		}
		if !strings.HasSuffix(path, stem) {
			t.Errorf("artifact %q path = %q, want suffix %q", key, path, stem)
		}

		data, err := os.ReadFile(filepath.Join(outputDir, filepath.Base(path)))
		if err != nil {
			t.Fatalf("reading %q: %v", key, err)
		}
		text := string(data)
		if !strings.Contains(text, "Title: Test Video") {
			t.Errorf("%q missing metadata block", key)
		}
		if !strings.Contains(text, results[key]) {
			t.Errorf("%q missing raw content", key)
		}
	}
}

func TestGenerateSkipsAbsentSections(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "Test_Video_abc123")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}

	results := models.AnalysisResult{"keywords": "only, keywords"}

	files, err := New().Generate(results, testMeta(), outputDir, []string{"summary"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("file set = %v, want empty when no renderable sections present", files)
	}
}

func TestRequestLog(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "Test_Video_abc123")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}

	results := models.AnalysisResult{"keywords": "k", "summary": "s"}
	g := New()

	for i := 0; i < 2; i++ {
		if _, err := g.Generate(results, testMeta(), outputDir, []string{"summary"}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "request_log.md"))
	if err != nil {
		t.Fatalf("request log not created: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "# Video Request Log") {
		t.Error("request log missing header")
	}
	if got := strings.Count(text, "[Test Video](https://example.test/watch)"); got != 2 {
		t.Errorf("request log has %d entry rows, want 2", got)
	}
}

func TestMarkdownArtifactContent(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "Test_Video_abc123")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		t.Fatal(err)
	}

	results := models.AnalysisResult{"keywords": "foo, bar", "summary": "Hello world."}

	files, err := New().Generate(results, testMeta(), outputDir, []string{"summary"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, filepath.Base(files["summary_md"])))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"# Test Video - Summary",
		"Title: Test Video",
		"Keywords: foo, bar",
		"Hello world.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown artifact missing %q", want)
		}
	}
}

func TestCleanForPDF(t *testing.T) {
	got := cleanForPDF("line one<br>line two<br/>line three")
	want := "line one\nline two\nline three"
	if got != want {
		t.Errorf("cleanForPDF() = %q, want %q", got, want)
	}
}
