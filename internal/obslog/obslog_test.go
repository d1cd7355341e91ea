package obslog

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Build(Options{Level: "info", Format: "json", Console: true}, &buf)
	if err != nil { t.Fatalf("Build: %v", err) }
	logger.Debug("hidden")
	logger.Info("fen_applied", zap.String("fen", "8/8/8/8/8/8/8/8 w - - 0 1"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 { t.Fatalf("expected one line, got %d: %q", len(lines), buf.String()) }
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil { t.Fatalf("json: %v", err) }
	if entry["msg"] != "fen_applied" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestBuildFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "setup.log")
	logger, err := Build(Options{Format: "console", File: path}, nil)
	if err != nil { t.Fatalf("Build: %v", err) }
	logger.Info("hello")
	_ = logger.Sync()
}

func TestBuildWithoutSinksIsNop(t *testing.T) {
	logger, err := Build(Options{}, nil)
	if err != nil { t.Fatalf("Build: %v", err) }
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}
