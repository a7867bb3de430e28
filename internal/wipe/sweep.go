package wipe

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/krstm/Siler/internal/database"
)

// SweepDirs obscures and removes the directory tree once every file under
// it is gone. Each directory is renamed to an unpredictable name within its
// parent and then removed; children go strictly before their parents, and
// the root goes last. A directory-not-empty failure here is an ordering
// defect, not a runtime condition, and is surfaced as an error line.
func (w *Wiper) SweepDirs(dirs []string, root string) {
	sorted := append([]string(nil), dirs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pathDepth(sorted[i]) > pathDepth(sorted[j])
	})

	for _, dir := range sorted {
		w.removeDir(dir)
	}
	w.removeDir(root)
}

// removeDir renames one directory to a random name and removes it
func (w *Wiper) removeDir(dir string) {
	start := time.Now()

	if w.dryRun {
		w.reporter.DryRun("securely delete directory", dir)
		w.record(database.ActionDryRun, dir, "directory", 0, start, "")
		return
	}

	renamed, err := renameToRandom(dir, w.engine.names)
	if err != nil {
		w.reporter.Error(dir, err)
		w.metrics.ErrorsTotal().Inc()
		w.record(database.ActionError, dir, "directory", 0, start, err.Error())
		return
	}

	if err := w.deleter.Remove(renamed); err != nil {
		w.reporter.Error(dir, err)
		w.metrics.ErrorsTotal().Inc()
		w.record(database.ActionError, dir, "directory", 0, start, err.Error())
		return
	}

	w.reporter.DirDeleted(dir)
	w.metrics.DirsRemovedTotal().Inc()
	w.record(database.ActionRmdir, dir, "directory", 0, start, "")
}

// pathDepth orders the sweep: more separators means deeper in the tree
func pathDepth(p string) int {
	return strings.Count(filepath.Clean(p), string(os.PathSeparator))
}
