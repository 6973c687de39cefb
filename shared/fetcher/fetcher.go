package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"videoscribe/internal/models"

	"github.com/lrstanley/go-ytdlp"
)

// ErrFFmpegMissing signals that the audio transcoder is not on the host PATH.
// Downloads cannot extract audio without it, so the check runs before any
// network work.
var ErrFFmpegMissing = errors.New("ffmpeg not found in system PATH")

// videoInfo is the subset of the downloader's extracted info the pipeline
// needs.
type videoInfo struct {
	Title       string
	UploadDate  string
	Thumbnail   string
	WebpageURL  string
	Uploader    string
	Description string
}

// runner executes one download attempt with a given format selector.
// It exists so the fallback logic can be exercised without yt-dlp.
type runner interface {
	Download(ctx context.Context, url, format, outputTmpl string) (*videoInfo, error)
}

// Fetcher downloads the best available audio for a video URL via yt-dlp
// and reports the video's metadata.
type Fetcher struct {
	run      runner
	lookPath func(string) (string, error)
}

// New creates a Fetcher. cookiesFile and poToken are optional site
// authentication material; when present they are forwarded to the
// downloader unconditionally.
func New(cookiesFile, poToken string) *Fetcher {
	return &Fetcher{
		run:      &ytdlpRunner{cookiesFile: cookiesFile, poToken: poToken},
		lookPath: exec.LookPath,
	}
}

// Fetch downloads the audio track of url into destDir as
// {requestID}.mp3 and returns the video metadata. If the preferred
// audio-only stream is reported unavailable, it retries exactly once with
// the generic "best" selector before failing. The audio file is not
// cleaned up on later stage failures.
func (f *Fetcher) Fetch(ctx context.Context, url, destDir, requestID string) (*models.VideoMetadata, error) {
	if _, err := f.lookPath("ffmpeg"); err != nil {
		return nil, ErrFFmpegMissing
	}

	log.Printf("Starting download for URL: %s to %s", url, destDir)
	outputTmpl := filepath.Join(destDir, requestID+".%(ext)s")

	info, err := f.run.Download(ctx, url, "bestaudio/best", outputTmpl)
	if err != nil {
		if !isFormatUnavailable(err) {
			return nil, err
		}
		log.Printf("Preferred format not found for %s, retrying with 'best': %v", url, err)
		info, err = f.run.Download(ctx, url, "best", outputTmpl)
		if err != nil {
			return nil, err
		}
	}

	return &models.VideoMetadata{
		Title:       orDefault(info.Title, "Unknown Title"),
		UploadDate:  orDefault(info.UploadDate, "Unknown Date"),
		Thumbnail:   info.Thumbnail,
		AudioPath:   filepath.Join(destDir, requestID+".mp3"),
		Description: info.Description,
		WebpageURL:  orDefault(info.WebpageURL, url),
		Uploader:    orDefault(info.Uploader, "Unknown Author"),
	}, nil
}

// isFormatUnavailable matches yt-dlp's "requested format" complaint by
// substring because the wrapper exposes no structured error class for it.
// Kept in one place so a structured check can replace it later.
func isFormatUnavailable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Requested format is not available")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ytdlpRunner drives the real yt-dlp binary through go-ytdlp.
type ytdlpRunner struct {
	cookiesFile string
	poToken     string
}

func (r *ytdlpRunner) Download(ctx context.Context, url, format, outputTmpl string) (*videoInfo, error) {
	cmd := ytdlp.New().
		Format(format).
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("192K").
		Output(outputTmpl).
		NoProgress().
		PrintJSON()

	if r.cookiesFile != "" {
		if _, err := os.Stat(r.cookiesFile); err == nil {
			cmd = cmd.Cookies(r.cookiesFile)
		}
	}
	if r.poToken != "" {
		cmd = cmd.ExtractorArgs(fmt.Sprintf("youtube:po_token=%s", r.poToken))
	}

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp metadata: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no metadata for %s", url)
	}

	info := infos[0]
	return &videoInfo{
		Title:       deref(info.Title),
		UploadDate:  deref(info.UploadDate),
		Thumbnail:   deref(info.Thumbnail),
		WebpageURL:  deref(info.WebpageURL),
		Uploader:    deref(info.Uploader),
		Description: deref(info.Description),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
