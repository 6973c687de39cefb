package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videoscribe/shared/ai"
	"videoscribe/shared/config"
	"videoscribe/shared/docgen"
	"videoscribe/shared/fetcher"
	"videoscribe/shared/janitor"
	"videoscribe/shared/server"
	"videoscribe/shared/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.MaterializeAuth(); err != nil {
		log.Fatalf("Failed to stage authentication material: %v", err)
	}

	if err := os.MkdirAll(cfg.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	analyzer, err := ai.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Failed to create AI analyzer: %v", err)
	}

	history := storage.NewHistoryStore(cfg.Storage.HistoryFile)
	log.Printf("History loaded (%d entries)", history.Count())

	j := janitor.New(cfg.Storage.OutputDir, time.Duration(cfg.Janitor.RetentionHours)*time.Hour)
	if err := j.Start(cfg.Janitor.Schedule); err != nil {
		log.Fatalf("Failed to start audio janitor: %v", err)
	}

	srv := server.New(cfg,
		fetcher.New(cfg.Storage.CookiesFile, cfg.Downloader.POToken),
		analyzer,
		docgen.New(),
		history,
	)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	err = srv.Run(ctx)
	j.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
