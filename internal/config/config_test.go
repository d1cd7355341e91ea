package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("RENDER_SQUARE_SIZE", "")
	t.Setenv("CLIPBOARD_TTL_SEC", "")
	cfg, err := Load()
	if err != nil { t.Fatalf("Load: %v", err) }
	if cfg.HTTPAddr != ":8080" || cfg.RenderSquareSize != 64 || cfg.ClipboardTTLSec != 3600 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.yaml")
	body := "http_addr: \":9000\"\nrender_square_size: 48\nsession_limit: 4\ninitial_fen: \"8/8/8/8/8/8/8/8 w - - 0 1\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil { t.Fatal(err) }
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SESSION_LIMIT", "9")
	t.Setenv("RENDER_SQUARE_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil { t.Fatalf("Load: %v", err) }
	if cfg.HTTPAddr != ":9000" { t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr) }
	if cfg.RenderSquareSize != 48 { t.Fatalf("RenderSquareSize = %d", cfg.RenderSquareSize) }
	if cfg.SessionLimit != 9 { t.Fatalf("SessionLimit = %d", cfg.SessionLimit) }
	if cfg.InitialFEN != "8/8/8/8/8/8/8/8 w - - 0 1" { t.Fatalf("InitialFEN = %q", cfg.InitialFEN) }
}

func TestLoadRejectsBadSquareSize(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RENDER_SQUARE_SIZE", "4")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for tiny square size")
	}
}
