package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics describes the loaded catalog and the audio index.
type DatasetMetrics struct {
	CatalogRecords    prometheus.Gauge
	CatalogDuplicates prometheus.Gauge
	IndexFiles        prometheus.Gauge
	IndexShards       prometheus.Gauge
	IndexCollisions   prometheus.Gauge
	IndexBuilds       prometheus.Counter
	IndexBuildSeconds prometheus.Histogram
}

// NewDatasetMetrics creates the dataset collectors and registers them.
func NewDatasetMetrics(registry *prometheus.Registry) (*DatasetMetrics, error) {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}

	m := &DatasetMetrics{
		CatalogRecords:    gauge("urbansound_catalog_records", "Rows in the metadata catalog"),
		CatalogDuplicates: gauge("urbansound_catalog_duplicate_names", "Display names occurring more than once"),
		IndexFiles:        gauge("urbansound_audio_index_files", "Distinct audio file names in the index"),
		IndexShards:       gauge("urbansound_audio_index_shards", "Shard directories scanned by the last index build"),
		IndexCollisions:   gauge("urbansound_audio_index_collisions", "File names present in more than one shard"),
		IndexBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urbansound_audio_index_builds_total",
			Help: "Full scans of the audio tree",
		}),
		IndexBuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "urbansound_audio_index_build_duration_seconds",
			Help:    "Time taken by one full scan of the audio tree",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register dataset metrics: %w", err)
	}
	return m, nil
}

// SetCatalog records the catalog size and duplicate count
func (m *DatasetMetrics) SetCatalog(records, duplicates int) {
	m.CatalogRecords.Set(float64(records))
	m.CatalogDuplicates.Set(float64(duplicates))
}

// RecordIndexBuild records one index build
func (m *DatasetMetrics) RecordIndexBuild(files, shards, collisions int, seconds float64) {
	m.IndexBuilds.Inc()
	m.IndexFiles.Set(float64(files))
	m.IndexShards.Set(float64(shards))
	m.IndexCollisions.Set(float64(collisions))
	if seconds >= 0 {
		m.IndexBuildSeconds.Observe(seconds)
	}
}

// Describe implements the prometheus.Collector interface.
func (m *DatasetMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface.
func (m *DatasetMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *DatasetMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CatalogRecords,
		m.CatalogDuplicates,
		m.IndexFiles,
		m.IndexShards,
		m.IndexCollisions,
		m.IndexBuilds,
		m.IndexBuildSeconds,
	}
}
