package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/observability/metrics"
)

// TestNewMetricsConcurrency verifies that NewMetrics can be called
// concurrently, each call owning a private registry
func TestNewMetricsConcurrency(t *testing.T) {
	t.Parallel()

	const numGoroutines = 20

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.NotNil(t, m.Registry())
			assert.NotNil(t, m.Classifier)
			assert.NotNil(t, m.Playback)
			assert.NotNil(t, m.Dataset)
			assert.NotNil(t, m.Errors)
		})
	}
	wg.Wait()
}

func TestClassifierMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	c := m.Classifier
	c.RecordPrediction("crnn", 0.01, nil)
	c.RecordPrediction("crnn", 0, errors.Newf("bad length").Category(errors.CategoryContract).Build())
	c.RecordModelLoad("crnn", nil)
	c.RecordPredictedClass("Dog bark")

	assert.InDelta(t, 1, testutil.ToFloat64(c.PredictionTotal.WithLabelValues("crnn", metrics.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.PredictionTotal.WithLabelValues("crnn", metrics.StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.PredictionErrors.WithLabelValues("crnn", metrics.ErrorTypeContract)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.ModelLoadedGauge), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.PredictedClass.WithLabelValues("Dog bark")), 0)
}

func TestCategorizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{errors.NotFound("x").Build(), metrics.ErrorTypeNotFound},
		{errors.Newf("x").Category(errors.CategoryValidation).Build(), metrics.ErrorTypeValidation},
		{errors.Newf("x").Category(errors.CategoryFileParsing).Build(), metrics.ErrorTypeFileIO},
		{errors.Newf("x").Category(errors.CategoryModelInit).Build(), metrics.ErrorTypeModel},
		{fmt.Errorf("plain"), metrics.ErrorTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.CategorizeError(tt.err))
	}
}

func TestPlaybackAndDatasetMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Playback.RecordOperation(metrics.OpPlay, metrics.StatusSuccess)
	m.Playback.RecordOperation(metrics.OpPreempt, metrics.StatusSuccess)
	m.Playback.RecordError(metrics.OpPlay, metrics.ErrorTypeNotFound)
	m.Playback.SetPlaying(true)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Playback.OperationsTotal.WithLabelValues(metrics.OpPlay, metrics.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Playback.ErrorsTotal.WithLabelValues(metrics.OpPlay, metrics.ErrorTypeNotFound)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Playback.PlayingGauge), 0)

	m.Dataset.SetCatalog(8732, 2)
	m.Dataset.RecordIndexBuild(8732, 10, 1, 0.05)
	assert.InDelta(t, 8732, testutil.ToFloat64(m.Dataset.CatalogRecords), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(m.Dataset.IndexShards), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Dataset.IndexBuilds), 0)
}

func TestErrorHookCountsErrors(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.InstallErrorHook()
	t.Cleanup(errors.ClearErrorHooks)

	errors.Newf("gone").Component("locator").Category(errors.CategoryNotFound).Build()

	assert.InDelta(t, 1, testutil.ToFloat64(
		m.Errors.ErrorsTotal.WithLabelValues("locator", string(errors.CategoryNotFound), errors.PriorityMedium)), 0)
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.Dataset.SetCatalog(3, 0)

	path := filepath.Join(t.TempDir(), "urbansound.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "urbansound_catalog_records 3")

	require.NoError(t, m.WriteTextfile(""))
	require.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
