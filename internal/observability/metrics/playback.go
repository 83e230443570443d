package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PlaybackMetrics contains all Prometheus metrics related to audio playback.
type PlaybackMetrics struct {
	OperationsTotal *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	StartDuration   prometheus.Histogram
	PlayingGauge    prometheus.Gauge
}

// NewPlaybackMetrics creates the playback collectors and registers them.
func NewPlaybackMetrics(registry *prometheus.Registry) (*PlaybackMetrics, error) {
	m := &PlaybackMetrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urbansound_playback_operations_total",
				Help: "Playback commands partitioned by operation (play, stop, preempt) and status",
			},
			[]string{"operation", "status"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urbansound_playback_errors_total",
				Help: "Playback errors partitioned by operation and error type",
			},
			[]string{"operation", "error_type"},
		),
		StartDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "urbansound_playback_start_duration_seconds",
				Help:    "Time from play command to audible stream, decoding included",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		PlayingGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "urbansound_playback_playing",
				Help: "Whether a clip is currently playing (1) or not (0)",
			},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register playback metrics: %w", err)
	}
	return m, nil
}

// SetPlaying mirrors the controller state
func (m *PlaybackMetrics) SetPlaying(playing bool) {
	if playing {
		m.PlayingGauge.Set(1)
		return
	}
	m.PlayingGauge.Set(0)
}

// RecordOperation implements Recorder
func (m *PlaybackMetrics) RecordOperation(operation, status string) {
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder
func (m *PlaybackMetrics) RecordDuration(operation string, seconds float64) {
	if operation == OpPlay {
		m.StartDuration.Observe(seconds)
	}
}

// RecordError implements Recorder
func (m *PlaybackMetrics) RecordError(operation, errorType string) {
	m.ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *PlaybackMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.OperationsTotal.Describe(ch)
	m.ErrorsTotal.Describe(ch)
	ch <- m.StartDuration.Desc()
	ch <- m.PlayingGauge.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *PlaybackMetrics) Collect(ch chan<- prometheus.Metric) {
	m.OperationsTotal.Collect(ch)
	m.ErrorsTotal.Collect(ch)
	ch <- m.StartDuration
	ch <- m.PlayingGauge
}

var _ Recorder = (*PlaybackMetrics)(nil)
