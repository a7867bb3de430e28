package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krstm/Siler/internal/config"
	"github.com/krstm/Siler/internal/metrics"
	"github.com/krstm/Siler/internal/safety"
	"github.com/krstm/Siler/internal/wipe"
)

func init() {
	// Initialize metrics once for all integration tests
	metrics.Init()
}

func newWiper(out *bytes.Buffer, dryRun bool) *wipe.Wiper {
	return wipe.NewWiper(config.Default(), wipe.NewReporter(out, nil), dryRun, nil)
}

// TestSingleFileEndToEnd verifies the complete pipeline on one real file:
// overwritten, renamed, removed, with exactly one success line
func TestSingleFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(path, []byte("ten bytes!"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var out bytes.Buffer
	w := newWiper(&out, false)
	if err := w.Run(path); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File still exists after wipe: %s", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Directory not empty after wipe: %d entries remain", len(entries))
	}

	want := "File securely deleted: " + path + "\n"
	if out.String() != want {
		t.Errorf("Output mismatch:\ngot:  %q\nwant: %q", out.String(), want)
	}
}

// TestDirectoryTreeEndToEnd verifies a tree with files in nested dirs plus
// an empty subdirectory is fully destroyed, with one line per object
func TestDirectoryTreeEndToEnd(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "project")
	sub := filepath.Join(root, "data")
	empty := filepath.Join(root, "empty")

	for _, d := range []string{sub, empty} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("Failed to create dir %s: %v", d, err)
		}
	}

	files := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(sub, "c.bin"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("content of "+f), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", f, err)
		}
	}

	var out bytes.Buffer
	w := newWiper(&out, false)
	if err := w.Run(root); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("Root directory still exists: %s", root)
	}

	output := out.String()
	if strings.Contains(output, "Error:") {
		t.Errorf("Unexpected errors in output:\n%s", output)
	}
	if got := strings.Count(output, "File securely deleted: "); got != len(files) {
		t.Errorf("Got %d file lines, expected %d:\n%s", got, len(files), output)
	}
	// data, empty, and the root itself
	if got := strings.Count(output, "Directory securely deleted: "); got != 3 {
		t.Errorf("Got %d directory lines, expected 3:\n%s", got, output)
	}
	for _, f := range files {
		if !strings.Contains(output, "File securely deleted: "+f) {
			t.Errorf("Missing success line for %s", f)
		}
	}
}

// TestMissingPathEndToEnd verifies a nonexistent target produces exactly
// the missing-path line and no filesystem mutation
func TestMissingPathEndToEnd(t *testing.T) {
	dir := t.TempDir()
	bystander := filepath.Join(dir, "bystander.txt")
	if err := os.WriteFile(bystander, []byte("untouched"), 0644); err != nil {
		t.Fatalf("Failed to create bystander file: %v", err)
	}

	var out bytes.Buffer
	w := newWiper(&out, false)
	err := w.Run(filepath.Join(dir, "no_such_thing"))
	if err != wipe.ErrPathNotFound {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}

	if out.String() != "Path does not exist.\n" {
		t.Errorf("Output mismatch: %q", out.String())
	}

	content, readErr := os.ReadFile(bystander)
	if readErr != nil {
		t.Fatalf("Bystander file disturbed: %v", readErr)
	}
	if string(content) != "untouched" {
		t.Errorf("Bystander content changed: %q", content)
	}
}

// TestDryRunEndToEnd verifies a full dry run over a tree leaves every byte
// in place while announcing each would-be action
func TestDryRunEndToEnd(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "precious")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	path := filepath.Join(root, "keep.txt")
	original := []byte("MUST KEEP")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var out bytes.Buffer
	w := newWiper(&out, true)
	if err := w.Run(root); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("File vanished in dry run: %v", err)
	}
	if !bytes.Equal(content, original) {
		t.Errorf("File content changed in dry run: %q", content)
	}
	// One line for the file, one for the root directory
	if got := strings.Count(out.String(), "[DRY RUN]"); got != 2 {
		t.Errorf("Got %d dry-run lines, expected 2:\n%s", got, out.String())
	}
}

// TestSafetyGateBlocksProtectedTarget verifies the validator rejects a
// system path before any wiper is constructed
func TestSafetyGateBlocksProtectedTarget(t *testing.T) {
	v := safety.NewValidator(nil)
	if err := v.ValidateTarget("/etc"); err == nil {
		t.Error("Expected protected-path rejection for /etc")
	}
	if err := v.ValidateTarget("/tmp/../etc/passwd"); err == nil {
		t.Error("Expected rejection for traversal into protected path")
	}

	// A plain temp target passes the gate
	target := filepath.Join(t.TempDir(), "ok")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := v.ValidateTarget(target); err != nil {
		t.Errorf("Validator rejected legitimate target: %v", err)
	}
}
