package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("<html><body>hi</body></html>")
	if err := s.Write("1/index.html", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("1/index.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("a/b/c.css", []byte("body{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Exists("a/b/c.css") {
		t.Error("expected a/b/c.css to exist")
	}
}

func TestCopyFrom(t *testing.T) {
	s := tempRoot(t)
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "clip.mp4")
	if err := os.WriteFile(src, []byte("not really video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.CopyFrom("2/videos/clip.mp4", src); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	got, err := s.Read("2/videos/clip.mp4")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "not really video" {
		t.Errorf("content = %q", got)
	}
}

func TestCopyFromMissingSource(t *testing.T) {
	s := tempRoot(t)
	if err := s.CopyFrom("x.bin", filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestPathRejectsEscape(t *testing.T) {
	s := tempRoot(t)
	if _, err := s.Path("../outside.txt"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := s.Path("/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}

func TestNewFSRequiresDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(file); err == nil {
		t.Error("expected error for non-directory root")
	}
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}
