package models

// AnalyzeRequest is the body of POST /analyze. Options are drawn from
// "summary", "transcription_orig", "transcription_es" and "guide";
// keywords are always generated.
type AnalyzeRequest struct {
	URL     string   `json:"url" binding:"required"`
	Options []string `json:"options"`
}

// VideoMetadata describes a downloaded video and its extracted audio track.
// UploadDate is kept as the source-provided string (typically YYYYMMDD but
// not guaranteed ISO).
type VideoMetadata struct {
	Title       string `json:"title"`
	UploadDate  string `json:"upload_date"`
	Thumbnail   string `json:"thumbnail"`
	AudioPath   string `json:"audio_path"`
	Description string `json:"description"`
	WebpageURL  string `json:"webpage_url"`
	Uploader    string `json:"uploader"`
}

// AnalysisResult maps a section key ("summary", "guide", "keywords",
// "transcription_orig", "transcription_es") to the raw text the model
// produced for it. Keys are absent when a section was not requested or
// the response omitted it.
type AnalysisResult map[string]string

// GeneratedFileSet maps an artifact key (e.g. "summary_pdf") to a
// download-route-relative path.
type GeneratedFileSet map[string]string
