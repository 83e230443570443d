package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/urbansound-go/internal/errors"
)

// ErrorMetrics counts every EnhancedError built in the process.
type ErrorMetrics struct {
	ErrorsTotal *prometheus.CounterVec
}

// NewErrorMetrics creates the error collector and registers it.
func NewErrorMetrics(registry *prometheus.Registry) (*ErrorMetrics, error) {
	m := &ErrorMetrics{
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urbansound_errors_total",
				Help: "Errors partitioned by component, category and priority",
			},
			[]string{"component", "category", "priority"},
		),
	}
	if err := registry.Register(m.ErrorsTotal); err != nil {
		return nil, fmt.Errorf("failed to register error metrics: %w", err)
	}
	return m, nil
}

// Hook returns an error hook feeding ErrorsTotal. Register it with
// errors.AddErrorHook.
func (m *ErrorMetrics) Hook() errors.ErrorHook {
	return func(ee *errors.EnhancedError) {
		priority := ee.GetPriority()
		if priority == "" {
			priority = errors.PriorityMedium
		}
		m.ErrorsTotal.WithLabelValues(ee.GetComponent(), string(ee.GetCategory()), priority).Inc()
	}
}
