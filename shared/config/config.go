package config

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Downloader DownloaderConfig `yaml:"downloader"`
	Janitor    JanitorConfig    `yaml:"janitor"`
}

type AIConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model"`
}

type ServerConfig struct {
	Port  string `yaml:"port" env:"PORT"`
	Debug bool   `yaml:"debug" env:"DEBUG_ENDPOINTS"`
}

type StorageConfig struct {
	OutputDir   string `yaml:"output_dir" env:"OUTPUT_DIR"`
	HistoryFile string `yaml:"history_file"`
	CookiesFile string `yaml:"cookies_file"`
}

type DownloaderConfig struct {
	POToken string `yaml:"po_token" env:"YOUTUBE_PO_TOKEN"`
}

type JanitorConfig struct {
	Schedule       string `yaml:"schedule"`
	RetentionHours int    `yaml:"retention_hours"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-flash-latest"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = os.Getenv("PORT")
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if os.Getenv("DEBUG_ENDPOINTS") == "true" {
		cfg.Server.Debug = true
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = os.Getenv("OUTPUT_DIR")
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "output"
	}
	if cfg.Storage.HistoryFile == "" {
		cfg.Storage.HistoryFile = "history.json"
	}
	if cfg.Storage.CookiesFile == "" {
		cfg.Storage.CookiesFile = "cookies.txt"
	}
	if cfg.Downloader.POToken == "" {
		cfg.Downloader.POToken = os.Getenv("YOUTUBE_PO_TOKEN")
	}
	if cfg.Janitor.Schedule == "" {
		cfg.Janitor.Schedule = "@hourly"
	}
	if cfg.Janitor.RetentionHours <= 0 {
		cfg.Janitor.RetentionHours = 24
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY, GOOGLE_API_KEY or ai.api_key)")
	}
	return nil
}

// MaterializeAuth writes site authentication material to the local cookie
// file so the downloader can pick it up. The payload comes from the
// YOUTUBE_COOKIES environment variable verbatim, or is copied from an
// externally mounted file named by YOUTUBE_COOKIES_FILE. Contents are not
// validated. When neither source is set this is a no-op.
func (c *Config) MaterializeAuth() error {
	if payload := os.Getenv("YOUTUBE_COOKIES"); payload != "" {
		if err := os.WriteFile(c.Storage.CookiesFile, []byte(payload), 0600); err != nil {
			return fmt.Errorf("failed to write cookies file: %w", err)
		}
		return nil
	}

	mounted := os.Getenv("YOUTUBE_COOKIES_FILE")
	if mounted == "" {
		return nil
	}

	src, err := os.Open(mounted)
	if err != nil {
		return fmt.Errorf("failed to open mounted cookies file %s: %w", mounted, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(c.Storage.CookiesFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create cookies file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy cookies file: %w", err)
	}
	return nil
}
