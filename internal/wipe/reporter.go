package wipe

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Reporter emits the operator-facing status lines. Files are wiped
// concurrently, so line writes are serialized; the diagnostic logger, when
// present, receives the same lines.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *log.Logger
}

// NewReporter creates a reporter writing to out (stdout when nil)
func NewReporter(out io.Writer, logger *log.Logger) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out, logger: logger}
}

// FileDeleted reports one file's completed secure deletion, keyed to the
// path the operator supplied, not the obfuscated final name.
func (r *Reporter) FileDeleted(originalPath string) {
	r.line("File securely deleted: " + originalPath)
}

// DirDeleted reports one directory's rename-and-removal
func (r *Reporter) DirDeleted(originalPath string) {
	r.line("Directory securely deleted: " + originalPath)
}

// PathMissing reports a nonexistent input path
func (r *Reporter) PathMissing() {
	r.line("Path does not exist.")
}

// Error reports a per-target failure; processing of siblings continues
func (r *Reporter) Error(path string, err error) {
	r.line(fmt.Sprintf("Error: %s: %v", path, err))
}

// DryRun reports the action that would have been taken
func (r *Reporter) DryRun(action, path string) {
	r.line(fmt.Sprintf("[DRY RUN] Would %s: %s", action, path))
}

func (r *Reporter) line(msg string) {
	r.mu.Lock()
	fmt.Fprintln(r.out, msg)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Println(msg)
	}
}
