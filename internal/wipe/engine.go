package wipe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/krstm/Siler/internal/config"
)

// Engine performs one overwrite-and-rename round on a single file.
// Each instance is safe for concurrent use: all state lives on the stack of
// the calling goroutine, and every file is owned exclusively by the
// goroutine processing it.
type Engine struct {
	passes    int
	minBuffer int64
	maxBuffer int64

	// names produces rename candidates; overridable in tests to force
	// collisions
	names func() (string, error)
}

// NewEngine creates an engine bound to the run configuration
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		passes:    cfg.Wipe.Passes,
		minBuffer: cfg.Wipe.MinBufferBytes,
		maxBuffer: cfg.Wipe.MaxBufferBytes,
		names:     randomName,
	}
}

// OverwriteAndRename destroys the content of the file at path, shrinks it
// to a small random footer, and renames it to an unpredictable name within
// its parent directory. It returns the file's new path.
//
// On any failure the original path is returned together with the error:
// the round made no progress and the caller keeps operating on the path it
// already holds. Content is always destroyed strictly before the name is;
// the reverse order would leave recoverable bytes under a discoverable
// entry.
func (e *Engine) OverwriteAndRename(path string) (string, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return path, err
	}

	if err := e.overwrite(f); err != nil {
		f.Close()
		return path, err
	}
	if err := f.Close(); err != nil {
		return path, err
	}

	newPath, err := renameToRandom(path, e.names)
	if err != nil {
		return path, err
	}
	return newPath, nil
}

// overwrite runs the configured passes over the file's current full length,
// then replaces the content with the random footer.
func (e *Engine) overwrite(f *os.File) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	length := fi.Size()

	// Zero-length files carry no content to destroy; skip straight to the
	// footer.
	if length > 0 {
		buf := make([]byte, BufferSize(length, e.minBuffer, e.maxBuffer))
		for pass := 0; pass < e.passes; pass++ {
			// Fresh pattern every pass so no single bit pattern survives
			// on the medium.
			if err := FillPattern(buf); err != nil {
				return err
			}
			if err := writePass(f, buf, length); err != nil {
				return fmt.Errorf("pass %d: %w", pass+1, err)
			}
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return err
			}
		}
	}

	return writeFooter(f)
}

// writePass writes buf repeatedly until exactly length bytes are covered.
// The final chunk is trimmed so the write never runs past the file's
// length. Every chunk is forced to durable storage before the next one so
// the OS cannot coalesce the overwrite away before the eventual delete.
func writePass(f *os.File, buf []byte, length int64) error {
	var written int64
	for written < length {
		chunk := buf
		if remaining := length - written; remaining < int64(len(buf)) {
			chunk = buf[:remaining]
		}
		if _, err := f.Write(chunk); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return err
		}
		written += int64(len(chunk))
	}
	return nil
}

// writeFooter truncates the file and leaves a random-length random tail,
// so a wiped file neither keeps its original size nor shares a uniform
// size with every other wiped file.
func writeFooter(f *os.File) error {
	n, err := footerLength()
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if n > 0 {
		footer := make([]byte, n)
		if err := FillPattern(footer); err != nil {
			return err
		}
		if _, err := f.Write(footer); err != nil {
			return err
		}
	}
	return f.Sync()
}

// renameToRandom renames the entry at path to a fresh unpredictable name
// within its parent, regenerating on collision until an unused name is
// found. Collisions are vanishingly rare and never surface as errors.
func renameToRandom(path string, names func() (string, error)) (string, error) {
	dir := filepath.Dir(path)
	for {
		name, err := names()
		if err != nil {
			return "", err
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Lstat(candidate); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", err
		}
		if err := os.Rename(path, candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
}
