package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil { t.Fatalf("New: %v", err) }
	body, err := c.Render("setup.invalid_fen.body", map[string]any{"FEN": "bad"})
	if err != nil { t.Fatalf("Render: %v", err) }
	if !strings.HasSuffix(body, "\nbad") {
		t.Fatalf("unexpected body %q", body)
	}
	if got := c.PieceLabel("k"); got != "Black king (k)" {
		t.Fatalf("PieceLabel(k) = %q", got)
	}
	if got := c.PieceLabel("."); got != "Empty square" {
		t.Fatalf("PieceLabel(.) = %q", got)
	}
}

func TestMissingKeyFallsBack(t *testing.T) {
	c := MustDefault()
	if _, err := c.Render("setup.image_error.body", map[string]any{}); err == nil {
		t.Fatalf("expected missing data key error")
	}
	if got := c.Text("nope", nil, "fallback"); got != "fallback" {
		t.Fatalf("Text = %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("setup.no_image", nil, "x"); got != "x" {
		t.Fatalf("nil catalog Text = %q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("setup:\n  no_image: \"Nothing here\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil { t.Fatalf("New: %v", err) }
	if got := c.Text("setup.no_image", nil, ""); got != "Nothing here" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := c.Text("setup.invalid_fen.title", nil, ""); got != "Invalid FEN" {
		t.Fatalf("default lost: %q", got)
	}
}

func TestOverrideDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("setup:\n  no_image: \"x\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
