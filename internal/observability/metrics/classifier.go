// Package metrics provides custom Prometheus metrics for urbansound.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// ClassifierMetrics contains all Prometheus metrics related to classification.
type ClassifierMetrics struct {
	PredictionDuration *prometheus.HistogramVec
	PredictionTotal    *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	ModelLoadTotal     *prometheus.CounterVec
	PredictedClass     *prometheus.CounterVec

	ModelLoadedGauge prometheus.Gauge

	model string
}

// NewClassifierMetrics creates the classifier collectors and registers them.
func NewClassifierMetrics(registry *prometheus.Registry) (*ClassifierMetrics, error) {
	m := &ClassifierMetrics{model: "default"}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register classifier metrics: %w", err)
	}
	return m, nil
}

func (m *ClassifierMetrics) initMetrics() {
	m.PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "urbansound_prediction_duration_seconds",
			Help:    "Time taken to run one spectrogram through the classifier",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		},
		[]string{"model"},
	)

	m.PredictionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_predictions_total",
			Help: "Total number of classification requests",
		},
		[]string{"model", "status"},
	)

	m.PredictionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_prediction_errors_total",
			Help: "Total number of classification errors",
		},
		[]string{"model", "error_type"},
	)

	m.ModelLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_model_load_total",
			Help: "Total number of model load attempts",
		},
		[]string{"model", "status"},
	)

	m.PredictedClass = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "urbansound_predicted_class_total",
			Help: "Top-1 predictions partitioned by class label",
		},
		[]string{"label"},
	)

	m.ModelLoadedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "urbansound_model_loaded",
			Help: "Whether the classifier model is currently loaded (1) or not (0)",
		},
	)
}

// SetModel sets the model label used by the Recorder methods
func (m *ClassifierMetrics) SetModel(name string) {
	m.model = name
}

// RecordPrediction records the outcome of one prediction
func (m *ClassifierMetrics) RecordPrediction(model string, durationSeconds float64, err error) {
	if err != nil {
		m.PredictionTotal.WithLabelValues(model, StatusError).Inc()
		m.PredictionErrors.WithLabelValues(model, CategorizeError(err)).Inc()
		return
	}
	m.PredictionTotal.WithLabelValues(model, StatusSuccess).Inc()
	m.PredictionDuration.WithLabelValues(model).Observe(durationSeconds)
}

// RecordModelLoad records a model load attempt
func (m *ClassifierMetrics) RecordModelLoad(model string, err error) {
	if err != nil {
		m.ModelLoadTotal.WithLabelValues(model, StatusError).Inc()
		m.ModelLoadedGauge.Set(0)
		return
	}
	m.ModelLoadTotal.WithLabelValues(model, StatusSuccess).Inc()
	m.ModelLoadedGauge.Set(1)
}

// RecordPredictedClass counts a top-1 label
func (m *ClassifierMetrics) RecordPredictedClass(label string) {
	m.PredictedClass.WithLabelValues(label).Inc()
}

// RecordOperation implements Recorder
func (m *ClassifierMetrics) RecordOperation(operation, status string) {
	switch operation {
	case OpPrediction:
		m.PredictionTotal.WithLabelValues(m.model, status).Inc()
	case OpModelLoad:
		m.ModelLoadTotal.WithLabelValues(m.model, status).Inc()
	}
}

// RecordDuration implements Recorder
func (m *ClassifierMetrics) RecordDuration(operation string, seconds float64) {
	if operation == OpPrediction {
		m.PredictionDuration.WithLabelValues(m.model).Observe(seconds)
	}
}

// RecordError implements Recorder
func (m *ClassifierMetrics) RecordError(operation, errorType string) {
	if operation == OpPrediction {
		m.PredictionErrors.WithLabelValues(m.model, errorType).Inc()
	}
}

// CategorizeError maps an error onto an error_type label value
func CategorizeError(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.IsNotFound(err):
		return ErrorTypeNotFound
	case errors.Is(err, context.Canceled), errors.IsCategory(err, errors.CategoryCancellation):
		return ErrorTypeCanceled
	case errors.IsCategory(err, errors.CategoryContract):
		return ErrorTypeContract
	case errors.IsCategory(err, errors.CategoryValidation):
		return ErrorTypeValidation
	case errors.IsCategory(err, errors.CategoryFileIO), errors.IsCategory(err, errors.CategoryFileParsing):
		return ErrorTypeFileIO
	case errors.IsCategory(err, errors.CategoryModelInit), errors.IsCategory(err, errors.CategoryModelLoad):
		return ErrorTypeModel
	case errors.IsCategory(err, errors.CategoryAudio):
		return ErrorTypeAudio
	default:
		return ErrorTypeUnknown
	}
}

// Describe implements the prometheus.Collector interface.
func (m *ClassifierMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.PredictionDuration.Describe(ch)
	m.PredictionTotal.Describe(ch)
	m.PredictionErrors.Describe(ch)
	m.ModelLoadTotal.Describe(ch)
	m.PredictedClass.Describe(ch)
	ch <- m.ModelLoadedGauge.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *ClassifierMetrics) Collect(ch chan<- prometheus.Metric) {
	m.PredictionDuration.Collect(ch)
	m.PredictionTotal.Collect(ch)
	m.PredictionErrors.Collect(ch)
	m.ModelLoadTotal.Collect(ch)
	m.PredictedClass.Collect(ch)
	ch <- m.ModelLoadedGauge
}

var _ Recorder = (*ClassifierMetrics)(nil)
