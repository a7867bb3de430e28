package wipe

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krstm/Siler/internal/metrics"
)

// Metrics interface for wipe instrumentation
type Metrics interface {
	FilesWipedTotal() prometheus.Counter
	DirsRemovedTotal() prometheus.Counter
	BytesOverwrittenTotal() prometheus.Counter
	ErrorsTotal() prometheus.Counter
	WipeDuration() prometheus.Histogram
}

// wipeMetrics wraps the global metrics to implement the Metrics interface
type wipeMetrics struct{}

func (wipeMetrics) FilesWipedTotal() prometheus.Counter {
	return metrics.FilesWipedTotal
}

func (wipeMetrics) DirsRemovedTotal() prometheus.Counter {
	return metrics.DirsRemovedTotal
}

func (wipeMetrics) BytesOverwrittenTotal() prometheus.Counter {
	return metrics.BytesOverwrittenTotal
}

func (wipeMetrics) ErrorsTotal() prometheus.Counter {
	return metrics.ErrorsTotal
}

func (wipeMetrics) WipeDuration() prometheus.Histogram {
	return metrics.WipeDuration
}
