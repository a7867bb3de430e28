package wipe

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/krstm/Siler/internal/config"
	"github.com/krstm/Siler/internal/database"
	"github.com/krstm/Siler/internal/discover"
	"github.com/krstm/Siler/internal/fsops"
	"github.com/krstm/Siler/internal/limiter"
)

// ErrPathNotFound marks an input path that does not exist; the CLI maps it
// to its own exit code.
var ErrPathNotFound = errors.New("path does not exist")

// Wiper drives the full secure-delete sequence: overwrite rounds per file,
// the bounded-concurrency file pool, and the directory sweep.
type Wiper struct {
	cfg      *config.Config
	engine   *Engine
	deleter  fsops.Deleter
	reporter *Reporter
	metrics  Metrics
	db       *database.WipeDB // Optional wipe-history journal
	cpu      *limiter.CPULimiter
	dryRun   bool
}

// NewWiper creates a wiper for one run. out receives status lines (stdout
// when nil); db may be nil to disable history recording.
func NewWiper(cfg *config.Config, out *Reporter, dryRun bool, db *database.WipeDB) *Wiper {
	if out == nil {
		out = NewReporter(nil, log.Default())
	}
	w := &Wiper{
		cfg:      cfg,
		engine:   NewEngine(cfg),
		deleter:  fsops.OSDeleter{},
		reporter: out,
		metrics:  wipeMetrics{},
		db:       db,
		dryRun:   dryRun,
	}
	if cfg.ResourceLimits.MaxCPUPercent > 0 {
		w.cpu = limiter.NewCPULimiter(cfg.ResourceLimits.MaxCPUPercent)
	}
	return w
}

// SetDeleter replaces the OS deleter, used by tests and dry-run proofs
func (w *Wiper) SetDeleter(d fsops.Deleter) {
	w.deleter = d
}

// Run securely deletes the file or directory tree at path.
// A missing path performs no work and returns ErrPathNotFound.
func (w *Wiper) Run(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.reporter.PathMissing()
			return ErrPathNotFound
		}
		return err
	}

	if !info.IsDir() {
		w.SecureDelete(path)
		return nil
	}

	tree, err := discover.Walk(path)
	if err != nil {
		return err
	}

	// Unreadable entries are reported like any other per-target failure;
	// everything the walk did reach is still wiped.
	for _, we := range tree.Errors {
		w.reporter.Error(we.Path, we.Err)
		w.metrics.ErrorsTotal().Inc()
	}

	// Symlinks and other non-regular entries carry no content of their
	// own; overwriting through them would hit whatever they point at.
	for _, special := range tree.Specials {
		w.removeSpecial(special)
	}

	w.WipeFiles(tree.Files)
	w.SweepDirs(tree.Dirs, path)
	return nil
}

// SecureDelete runs the configured overwrite-and-rename rounds on one file
// and then issues the final OS delete. Every failure is reported and
// absorbed here: one file's trouble never aborts its siblings.
func (w *Wiper) SecureDelete(path string) {
	start := time.Now()

	size := int64(0)
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}

	if w.dryRun {
		w.reporter.DryRun("securely delete file", path)
		w.record(database.ActionDryRun, path, "file", size, start, "")
		return
	}

	current := path
	completed := 0
	for round := 0; round < w.cfg.Wipe.Rounds; round++ {
		roundSize := int64(0)
		if fi, err := os.Stat(current); err == nil {
			roundSize = fi.Size()
		}

		next, err := w.engine.OverwriteAndRename(current)
		if err != nil {
			// The round made no progress; the next one retries the same
			// path and is expected to surface the same error again.
			w.reporter.Error(path, err)
			w.metrics.ErrorsTotal().Inc()
			continue
		}
		current = next
		completed++
		w.metrics.BytesOverwrittenTotal().Add(float64(roundSize * int64(w.cfg.Wipe.Passes)))
	}

	// If not a single round destroyed the content, deleting now would
	// unlink recoverable bytes. Leave the file in place; the errors above
	// already tell the operator the target failed.
	if completed == 0 && w.cfg.Wipe.Rounds > 0 {
		w.record(database.ActionError, path, "file", size, start, "all overwrite rounds failed")
		return
	}

	if err := w.deleter.Remove(current); err != nil {
		w.reporter.Error(path, err)
		w.metrics.ErrorsTotal().Inc()
		w.record(database.ActionError, path, "file", size, start, err.Error())
		return
	}

	w.reporter.FileDeleted(path)
	w.metrics.FilesWipedTotal().Inc()
	w.metrics.WipeDuration().Observe(time.Since(start).Seconds())
	w.record(database.ActionWipe, path, "file", size, start, "")
}

// WipeFiles processes the files through SecureDelete with at most
// MaxConcurrent in flight. It returns only after every file has finished,
// so the directory sweep never observes an overwrite still running.
func (w *Wiper) WipeFiles(paths []string) {
	var throttle func()
	if w.cpu != nil {
		throttle = w.cpu.Throttle
	}
	forEachLimited(paths, w.cfg.Wipe.MaxConcurrent, throttle, w.SecureDelete)
}

// removeSpecial deletes a non-regular entry without overwrite
func (w *Wiper) removeSpecial(path string) {
	if w.dryRun {
		w.reporter.DryRun("remove special file", path)
		return
	}
	if err := w.deleter.Remove(path); err != nil {
		w.reporter.Error(path, err)
		w.metrics.ErrorsTotal().Inc()
		return
	}
	w.reporter.FileDeleted(path)
	w.metrics.FilesWipedTotal().Inc()
}

// record writes one history row when the journal is enabled
func (w *Wiper) record(action, path, objectType string, size int64, start time.Time, errMsg string) {
	if w.db == nil {
		return
	}
	err := w.db.RecordWipe(database.WipeEvent{
		Action:     action,
		Path:       path,
		ObjectType: objectType,
		Size:       size,
		Rounds:     w.cfg.Wipe.Rounds,
		Passes:     w.cfg.Wipe.Passes,
		Duration:   time.Since(start),
		ErrorMsg:   errMsg,
	})
	if err != nil && w.reporter.logger != nil {
		// History is an audit aid, not a gate; never fail the wipe on it.
		w.reporter.logger.Printf("failed to record wipe history: %v", err)
	}
}
