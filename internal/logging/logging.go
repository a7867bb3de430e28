package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/krstm/Siler/internal/config"
)

const (
	logDir  = "/var/log/siler"
	logFile = "siler.log"
)

// New creates a logger writing to stdout and the rotating log file.
func New() *log.Logger {
	return NewWithConfig(nil)
}

// NewWithConfig creates a logger honoring the configured rotation window.
// If the log directory cannot be used the logger falls back to stdout only.
func NewWithConfig(cfg *config.Config) *log.Logger {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	}

	filePath := filepath.Join(logDir, logFile)

	rotateDays := 30
	if cfg != nil && cfg.Logging.RotationDays > 0 {
		rotateDays = cfg.Logging.RotationDays
	}
	rotateIfNeeded(filePath, rotateDays)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", filePath, err)
		return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	}

	mw := io.MultiWriter(os.Stdout, f)
	return log.New(mw, "", log.LstdFlags|log.Lmicroseconds)
}

// rotateIfNeeded renames the active log when it is older than the rotation
// window and prunes rotated files past the same age.
func rotateIfNeeded(logPath string, rotationDays int) {
	info, err := os.Stat(logPath)
	if err != nil {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -rotationDays)
	if !info.ModTime().Before(cutoff) {
		return
	}

	stamp := info.ModTime().Format("20060102-150405")
	if err := os.Rename(logPath, logPath+"."+stamp); err != nil {
		log.Printf("failed to rotate log file: %v", err)
		return
	}

	pruneRotated(logPath, cutoff)
}

func pruneRotated(logPath string, cutoff time.Time) {
	dir := filepath.Dir(logPath)
	base := filepath.Base(logPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), base+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			full := filepath.Join(dir, entry.Name())
			if err := os.Remove(full); err != nil {
				log.Printf("failed to remove old log file %s: %v", full, err)
			}
		}
	}
}
