// Package server is the thin HTTP layer sequencing fetch, analysis and
// rendering for each request and exposing history and health endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"videoscribe/internal/models"
	"videoscribe/shared/config"
	"videoscribe/shared/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VideoFetcher downloads audio and metadata for a video URL.
type VideoFetcher interface {
	Fetch(ctx context.Context, url, destDir, requestID string) (*models.VideoMetadata, error)
}

// ContentAnalyzer turns an audio file into labeled text sections.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, audioPath string, options []string) (models.AnalysisResult, error)
}

// DocumentRenderer writes the per-section artifacts.
type DocumentRenderer interface {
	Generate(results models.AnalysisResult, meta *models.VideoMetadata, outputDir string, options []string) (models.GeneratedFileSet, error)
}

type Server struct {
	cfg      *config.Config
	fetcher  VideoFetcher
	analyzer ContentAnalyzer
	renderer DocumentRenderer
	history  *storage.HistoryStore
}

func New(cfg *config.Config, fetcher VideoFetcher, analyzer ContentAnalyzer, renderer DocumentRenderer, history *storage.HistoryStore) *Server {
	return &Server{
		cfg:      cfg,
		fetcher:  fetcher,
		analyzer: analyzer,
		renderer: renderer,
		history:  history,
	}
}

// Router builds the gin engine with all routes registered. The debug
// cookie endpoint leaks authentication material details and is only
// registered when explicitly enabled.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", s.health)
	r.POST("/analyze", s.analyze)
	r.GET("/history", s.getHistory)
	r.Static("/download", s.cfg.Storage.OutputDir)

	if s.cfg.Server.Debug {
		r.GET("/debug/cookies", s.debugCookies)
	}

	return r
}

// Run serves the API until ctx is cancelled, then drains in-flight
// requests before returning. A nil error means a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// health reports the presence of the external dependencies the pipeline
// needs: the ffmpeg transcoder and the AI credential.
func (s *Server) health(c *gin.Context) {
	ffmpegInstalled := lookPath("ffmpeg")
	apiKeySet := s.cfg.AI.APIKey != ""

	status := "healthy"
	if !ffmpegInstalled || !apiKeySet {
		status = "unhealthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"ffmpeg":  presence(ffmpegInstalled, "installed", "missing"),
		"api_key": presence(apiKeySet, "set", "missing"),
	})
}

// analyze runs the full pipeline for one request: download, analyze,
// render, record. Each stage failure is logged, stage-labeled where the
// original labels it, and returned as a single 500 detail string. A
// failed request leaves no history entry.
func (s *Server) analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	log.Printf("Received analysis request for URL: %s", req.URL)
	requestID := uuid.NewString()[:8]
	ctx := c.Request.Context()

	meta, err := s.fetcher.Fetch(ctx, req.URL, s.cfg.Storage.OutputDir, requestID)
	if err != nil {
		log.Printf("Download error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Download failed: %v", err)})
		return
	}

	// Each request owns a distinct subdirectory; the id suffix keeps
	// concurrent requests for the same title from colliding.
	dirName := sanitizeTitle(meta.Title) + "_" + requestID
	outputDir := filepath.Join(s.cfg.Storage.OutputDir, dirName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	newAudioPath := filepath.Join(outputDir, filepath.Base(meta.AudioPath))
	if err := os.Rename(meta.AudioPath, newAudioPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	meta.AudioPath = newAudioPath

	results, err := s.analyzer.Analyze(ctx, meta.AudioPath, req.Options)
	if err != nil {
		log.Printf("Analysis error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("AI Analysis failed: %v", err)})
		return
	}

	files, err := s.renderer.Generate(results, meta, outputDir, req.Options)
	if err != nil {
		log.Printf("Render error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	entry := models.HistoryEntry{
		ID:         requestID,
		Title:      meta.Title,
		URL:        req.URL,
		Date:       meta.UploadDate,
		ReportDate: time.Now().Format("2006-01-02"),
		DirName:    dirName,
		Files:      files,
		Thumbnail:  meta.Thumbnail,
	}
	if err := s.history.Append(entry); err != nil {
		log.Printf("History error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.history.All())
}

// debugCookies reports whether staged cookie material exists, its size
// and the first bytes. Gated behind server.debug.
func (s *Server) debugCookies(c *gin.Context) {
	path := s.cfg.Storage.CookiesFile
	info, err := os.Stat(path)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"exists": false, "message": "cookies.txt not found"})
		return
	}

	f, err := os.Open(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer f.Close()

	buf := make([]byte, 100)
	n, _ := f.Read(buf)

	c.JSON(http.StatusOK, gin.H{
		"exists":          true,
		"size":            info.Size(),
		"content_snippet": string(buf[:n]) + "...",
	})
}

// sanitizeTitle keeps alphanumerics, spaces, '-' and '_', trims the
// result and folds spaces to underscores, mirroring the artifact filename
// rules.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if safe == "" {
		return "video"
	}
	return safe
}

func lookPath(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

func presence(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
