package ai

import (
	"strings"

	"videoscribe/internal/models"
)

// sectionMarkers maps the literal header prefixes the prompt asks the
// model to emit to result keys. Longer markers come first so an
// overlapping shorter prefix added later cannot shadow them.
var sectionMarkers = []struct {
	prefix string
	key    string
}{
	{"### TRANSCRIPTION_ORIG", "transcription_orig"},
	{"### TRANSCRIPTION_ES", "transcription_es"},
	{"### SUMMARY", "summary"},
	{"### KEYWORDS", "keywords"},
	{"### GUIDE", "guide"},
}

// ParseSections scans the response text line by line and splits it into
// labeled sections. A line whose trimmed form starts with a recognized
// marker closes the currently open section (its buffer is flushed, trimmed
// of surrounding blank lines) and opens a new one. Lines before the first
// marker are discarded. A content line that happens to start with a marker
// prefix is misparsed as a new section; that is a documented limitation of
// the delimiter scheme, not something to work around here.
func ParseSections(text string) models.AnalysisResult {
	results := make(models.AnalysisResult)

	current := ""
	var buffer []string

	flush := func() {
		if current != "" {
			results[current] = strings.TrimSpace(strings.Join(buffer, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		key, ok := markerKey(line)
		if ok {
			flush()
			current = key
			buffer = buffer[:0]
			continue
		}
		if current != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	return results
}

func markerKey(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, m := range sectionMarkers {
		if strings.HasPrefix(trimmed, m.prefix) {
			return m.key, true
		}
	}
	return "", false
}
