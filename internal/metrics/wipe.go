package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Wipe subsystem metrics
var (
	// FilesWipedTotal tracks total files securely deleted
	FilesWipedTotal prometheus.Counter

	// DirsRemovedTotal tracks total directories renamed and removed
	DirsRemovedTotal prometheus.Counter

	// BytesOverwrittenTotal tracks total bytes written over file content
	BytesOverwrittenTotal prometheus.Counter

	// ErrorsTotal tracks per-target failures across the run
	ErrorsTotal prometheus.Counter

	// WipeDuration tracks how long one file's secure deletion takes
	WipeDuration prometheus.Histogram

	// LastRunTimestamp records Unix timestamp of the last completed run
	LastRunTimestamp prometheus.Gauge
)

// initWipeMetrics initializes all wipe subsystem metrics
func initWipeMetrics() {
	FilesWipedTotal = NewCounter(
		"siler_files_wiped_total",
		"Total number of files securely deleted.",
	)

	DirsRemovedTotal = NewCounter(
		"siler_directories_removed_total",
		"Total number of directories renamed and removed.",
	)

	BytesOverwrittenTotal = NewBytesCounter(
		"siler_bytes_overwritten_total",
		"Total bytes written over file content across all passes.",
	)

	ErrorsTotal = NewCounter(
		"siler_errors_total",
		"Total per-target errors during secure deletion.",
	)

	WipeDuration = NewDurationHistogram(
		"siler_wipe_duration_seconds",
		"Duration of one file's secure deletion in seconds.",
	)

	LastRunTimestamp = NewSizeGauge(
		"siler_last_run_timestamp",
		"Timestamp of the last completed run (Unix epoch seconds).",
	)
}

// registerWipeMetrics registers all wipe metrics with Prometheus
func registerWipeMetrics() {
	prometheus.MustRegister(FilesWipedTotal)
	prometheus.MustRegister(DirsRemovedTotal)
	prometheus.MustRegister(BytesOverwrittenTotal)
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(WipeDuration)
	prometheus.MustRegister(LastRunTimestamp)
}

// RecordRun stamps the completion of a run
func RecordRun() {
	LastRunTimestamp.Set(float64(time.Now().Unix()))
}
