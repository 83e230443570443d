// Package observability wires the Prometheus collectors of urbansound onto a
// private registry. There is no HTTP endpoint; the registry is written to a
// node-exporter textfile on exit when configured.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Classifier *metrics.ClassifierMetrics
	Playback   *metrics.PlaybackMetrics
	Dataset    *metrics.DatasetMetrics
	Errors     *metrics.ErrorMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	classifierMetrics, err := metrics.NewClassifierMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier metrics: %w", err)
	}

	playbackMetrics, err := metrics.NewPlaybackMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create playback metrics: %w", err)
	}

	datasetMetrics, err := metrics.NewDatasetMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset metrics: %w", err)
	}

	errorMetrics, err := metrics.NewErrorMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create error metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Classifier: classifierMetrics,
		Playback:   playbackMetrics,
		Dataset:    datasetMetrics,
		Errors:     errorMetrics,
	}, nil
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstallErrorHook counts every EnhancedError built from now on
func (m *Metrics) InstallErrorHook() {
	errors.AddErrorHook(m.Errors.Hook())
}

// WriteTextfile writes the registry in text exposition format. The file is
// replaced atomically, as the node-exporter textfile collector expects.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.FileError(fmt.Errorf("failed to write metrics textfile: %w", err), path, 0).
			Component("observability").
			Build()
	}
	GetLogger().Debug("Metrics written", logger.String("path", path))
	return nil
}
