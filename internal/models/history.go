package models

// HistoryEntry is one persisted record of a completed analysis request.
// DirName is the basename of the per-request output directory so the
// frontend can reconstruct download URLs.
type HistoryEntry struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	URL        string           `json:"url"`
	Date       string           `json:"date"`
	ReportDate string           `json:"report_date"`
	DirName    string           `json:"dir_name"`
	Files      GeneratedFileSet `json:"files"`
	Thumbnail  string           `json:"thumbnail"`
}
