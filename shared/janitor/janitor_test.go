package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
}

func TestCleanOnce(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Some_Video_abc123")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	touch(t, filepath.Join(root, "stale.mp3"), 48*time.Hour)
	touch(t, filepath.Join(sub, "stale.mp3"), 48*time.Hour)
	touch(t, filepath.Join(sub, "fresh.mp3"), time.Minute)
	touch(t, filepath.Join(sub, "report.pdf"), 48*time.Hour)

	j := New(root, 24*time.Hour)
	cleaned, err := j.CleanOnce()
	if err != nil {
		t.Fatalf("CleanOnce() error = %v", err)
	}
	if cleaned != 2 {
		t.Errorf("CleanOnce() = %d, want 2", cleaned)
	}

	for _, gone := range []string{
		filepath.Join(root, "stale.mp3"),
		filepath.Join(sub, "stale.mp3"),
	} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	for _, kept := range []string{
		filepath.Join(sub, "fresh.mp3"),
		filepath.Join(sub, "report.pdf"),
	} {
		if _, err := os.Stat(kept); err != nil {
			t.Errorf("%s should have been kept: %v", kept, err)
		}
	}
}

func TestCleanOnceEmptyDir(t *testing.T) {
	j := New(t.TempDir(), time.Hour)
	cleaned, err := j.CleanOnce()
	if err != nil {
		t.Fatalf("CleanOnce() error = %v", err)
	}
	if cleaned != 0 {
		t.Errorf("CleanOnce() = %d, want 0", cleaned)
	}
}
