// Package metrics exports run counters in the Prometheus text format so batch
// runs can be picked up by a node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/Caia-Tech/word2vec-corpus/internal/dataset"
	"github.com/Caia-Tech/word2vec-corpus/internal/procurement/scraping"
	"github.com/Caia-Tech/word2vec-corpus/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "word2vec_corpus"

// RunMetrics holds the counters for one CLI invocation
type RunMetrics struct {
	registry *prometheus.Registry

	documents      *prometheus.CounterVec
	examples       *prometheus.CounterVec
	shards         *prometheus.CounterVec
	articles       *prometheus.CounterVec
	storageOps     *prometheus.CounterVec
	runDuration    *prometheus.GaugeVec
	lastSuccessful *prometheus.GaugeVec
}

// New creates counters on a private registry
func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents read by the example generator",
		}, []string{"status"}),
		examples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "examples_total",
			Help:      "Training examples written",
		}, []string{"example_type"}),
		shards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shards_total",
			Help:      "Shard files written",
		}, []string{"example_type"}),
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_total",
			Help:      "Articles handled by the scraper",
		}, []string{"outcome"}),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Article storage operations",
		}, []string{"backend", "operation", "result"}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}, []string{"pipeline"}),
		lastSuccessful: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run finished",
		}, []string{"pipeline"}),
	}

	m.registry.MustRegister(
		m.documents,
		m.examples,
		m.shards,
		m.articles,
		m.storageOps,
		m.runDuration,
		m.lastSuccessful,
	)
	return m
}

// RecordGeneration adds a generator run. stats may be nil when the run failed validation.
func (m *RunMetrics) RecordGeneration(stats *dataset.Stats, runErr error) {
	if stats == nil {
		return
	}
	m.documents.WithLabelValues("processed").Add(float64(stats.Documents))
	m.documents.WithLabelValues("skipped").Add(float64(len(stats.Skipped)))
	m.examples.WithLabelValues(stats.ExampleType).Add(float64(stats.Examples))
	m.shards.WithLabelValues(stats.ExampleType).Add(float64(len(stats.Shards)))
	m.runDuration.WithLabelValues("generate-dataset").Set(stats.Duration.Seconds())
	if runErr == nil {
		m.lastSuccessful.WithLabelValues("generate-dataset").SetToCurrentTime()
	}
}

// RecordScrape adds a scraper run
func (m *RunMetrics) RecordScrape(summary *scraping.Summary, runErr error) {
	if summary == nil {
		return
	}
	m.articles.WithLabelValues("persisted").Add(float64(summary.Persisted))
	m.articles.WithLabelValues("failed").Add(float64(summary.Failed))
	m.runDuration.WithLabelValues("scrape-wikipedia").Set(summary.Duration.Seconds())
	if runErr == nil {
		m.lastSuccessful.WithLabelValues("scrape-wikipedia").SetToCurrentTime()
	}
}

// RecordStorage adds per-operation storage counts
func (m *RunMetrics) RecordStorage(collector *storage.SimpleMetricsCollector) {
	for backend, ops := range collector.Summary() {
		for op, stats := range ops {
			m.storageOps.WithLabelValues(backend, op, "success").Add(float64(stats.SuccessCount))
			m.storageOps.WithLabelValues(backend, op, "failure").Add(float64(stats.FailureCount))
		}
	}
}

// WriteTextfile writes all metrics to path atomically
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Registry exposes the underlying registry
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}
