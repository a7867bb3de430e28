package wipe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/krstm/Siler/internal/config"
)

func newTestEngine() *Engine {
	return NewEngine(config.Default())
}

// TestOverwriteAndRenameDestroysContent verifies the full round on a small
// file: original path gone, new entry in the same directory, content
// replaced and shrunk
func TestOverwriteAndRenameDestroysContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	original := []byte("ten bytes!")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	e := newTestEngine()
	newPath, err := e.OverwriteAndRename(path)
	if err != nil {
		t.Fatalf("OverwriteAndRename failed: %v", err)
	}

	if newPath == path {
		t.Error("path was not renamed")
	}
	if filepath.Dir(newPath) != dir {
		t.Errorf("renamed outside parent directory: %s", newPath)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("original path still exists: %s", path)
	}

	content, err := os.ReadFile(newPath)
	if err != nil {
		t.Fatalf("read renamed file: %v", err)
	}
	if len(content) > 1023 {
		t.Errorf("footer length = %d, expected at most 1023", len(content))
	}
	if len(content) == len(original) && bytes.Equal(content, original) {
		t.Error("original content survived the overwrite")
	}
}

// TestOverwriteZeroLengthFile verifies the passes short-circuit and the
// footer-and-rename still apply
func TestOverwriteZeroLengthFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	e := newTestEngine()
	newPath, err := e.OverwriteAndRename(path)
	if err != nil {
		t.Fatalf("OverwriteAndRename failed: %v", err)
	}

	fi, err := os.Stat(newPath)
	if err != nil {
		t.Fatalf("stat renamed file: %v", err)
	}
	if fi.Size() > 1023 {
		t.Errorf("footer length = %d, expected at most 1023", fi.Size())
	}
}

// TestOverwriteLargerThanBuffer verifies the chunk loop covers a file
// spanning several buffers with a short final chunk
func TestOverwriteLargerThanBuffer(t *testing.T) {
	cfg := config.Default()
	cfg.Wipe.MinBufferBytes = 1024
	cfg.Wipe.MaxBufferBytes = 4096

	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	// 2.5 buffers at the min size
	payload := bytes.Repeat([]byte{0xAA}, 2560)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	e := NewEngine(cfg)
	newPath, err := e.OverwriteAndRename(path)
	if err != nil {
		t.Fatalf("OverwriteAndRename failed: %v", err)
	}

	content, err := os.ReadFile(newPath)
	if err != nil {
		t.Fatalf("read renamed file: %v", err)
	}
	if len(content) > 1023 {
		t.Errorf("footer length = %d, expected at most 1023", len(content))
	}
	if bytes.Contains(content, bytes.Repeat([]byte{0xAA}, 32)) {
		t.Error("original pattern survived the overwrite")
	}
}

// TestMissingFileReturnsOriginalPath verifies the no-progress contract:
// on failure the caller gets back the path it passed in
func TestMissingFileReturnsOriginalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")

	e := newTestEngine()
	got, err := e.OverwriteAndRename(path)
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if got != path {
		t.Errorf("returned path = %q, expected original %q", got, path)
	}
}

// TestRenameCollisionRetry verifies the engine retries with a fresh name
// when the random candidate already exists
func TestRenameCollisionRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	// Occupy the first candidate name
	occupied := filepath.Join(dir, "collide")
	if err := os.WriteFile(occupied, []byte("innocent"), 0o644); err != nil {
		t.Fatalf("write blocking file: %v", err)
	}

	e := newTestEngine()
	calls := 0
	e.names = func() (string, error) {
		calls++
		if calls == 1 {
			return "collide", nil
		}
		return "fresh", nil
	}

	newPath, err := e.OverwriteAndRename(path)
	if err != nil {
		t.Fatalf("OverwriteAndRename failed: %v", err)
	}

	if filepath.Base(newPath) != "fresh" {
		t.Errorf("renamed to %q, expected the retried candidate", newPath)
	}
	if calls != 2 {
		t.Errorf("name generator called %d times, expected 2", calls)
	}

	// The occupying file must be untouched
	content, err := os.ReadFile(occupied)
	if err != nil || string(content) != "innocent" {
		t.Errorf("pre-existing file was disturbed: %q, %v", content, err)
	}
}
