// Package janitor periodically removes downloaded audio files once they
// are older than the retention window. Rendered artifacts are never
// touched; only the intermediate mp3 files are disposable.
package janitor

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

type Janitor struct {
	outputDir string
	retention time.Duration
	cron      *cron.Cron
}

func New(outputDir string, retention time.Duration) *Janitor {
	return &Janitor{
		outputDir: outputDir,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules the cleanup on the given cron spec and runs it in the
// background until Stop is called.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.CleanOnce(); err != nil {
			log.Printf("audio cleanup error: %v", err)
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// CleanOnce removes stale audio files under the output root, including
// per-request subdirectories, and returns how many were deleted.
func (j *Janitor) CleanOnce() (int, error) {
	patterns := []string{
		filepath.Join(j.outputDir, "*.mp3"),
		filepath.Join(j.outputDir, "*", "*.mp3"),
	}

	cutoff := time.Now().Add(-j.retention)
	cleaned := 0

	for _, pattern := range patterns {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return cleaned, err
		}
		for _, f := range files {
			info, err := os.Stat(f)
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(f); err != nil {
					log.Printf("failed to remove audio file %s: %v", f, err)
				} else {
					cleaned++
				}
			}
		}
	}

	if cleaned > 0 {
		log.Printf("cleaned up %d stale audio files", cleaned)
	}
	return cleaned, nil
}
