package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	ClipboardTTLSec  int    `yaml:"clipboard_ttl_sec"`
	SessionLimit     int    `yaml:"session_limit"`
	SessionIdleSec   int    `yaml:"session_idle_sec"`
	RenderSquareSize int    `yaml:"render_square_size"`
	MessagesDir      string `yaml:"messages_dir"`
	LibraryListLimit int    `yaml:"library_list_limit"`
	InitialFEN       string `yaml:"initial_fen"`
	ImageDir         string `yaml:"image_dir"` // reference images are only loaded from here
}

func defaults() *AppConfig {
	return &AppConfig{
		HTTPAddr:         ":8080",
		ClipboardTTLSec:  3600,
		SessionLimit:     256,
		SessionIdleSec:   1800,
		RenderSquareSize: 64,
		LibraryListLimit: 20,
	}
}

// Load builds the config from defaults, an optional YAML file named by
// CONFIG_FILE, then environment variables.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		cfg.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("INITIAL_FEN")); v != "" {
		cfg.InitialFEN = v
	}
	if v := strings.TrimSpace(os.Getenv("IMAGE_DIR")); v != "" {
		cfg.ImageDir = v
	}
	setPositiveInt("CLIPBOARD_TTL_SEC", &cfg.ClipboardTTLSec)
	setPositiveInt("SESSION_LIMIT", &cfg.SessionLimit)
	setPositiveInt("SESSION_IDLE_SEC", &cfg.SessionIdleSec)
	setPositiveInt("RENDER_SQUARE_SIZE", &cfg.RenderSquareSize)
	setPositiveInt("LIBRARY_LIST_LIMIT", &cfg.LibraryListLimit)

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.RenderSquareSize < 16 || cfg.RenderSquareSize > 256 {
		return nil, fmt.Errorf("RENDER_SQUARE_SIZE out of range: %d", cfg.RenderSquareSize)
	}
	return cfg, nil
}

func setPositiveInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
