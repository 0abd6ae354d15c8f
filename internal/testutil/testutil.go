// Package testutil provides shared test helpers for building site trees
// and raw source items.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/raymee/postforge/internal/storage"
)

// TestSite creates a temporary site tree and returns its storage.FS and
// absolute root.
func TestSite(t *testing.T) (*storage.FS, string) {
	t.Helper()
	root := t.TempDir()
	site, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return site, root
}

// RawItem creates a raw source item directory under sourceRoot with the
// given files (paths relative to the item) and returns its absolute path.
func RawItem(t *testing.T, sourceRoot, name string, files map[string][]byte) string {
	t.Helper()
	item := filepath.Join(sourceRoot, name)
	for rel, content := range files {
		p := filepath.Join(item, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return item
}

// PNG returns a small opaque PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 140, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// DiscardLogger returns a logger whose output is dropped.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
