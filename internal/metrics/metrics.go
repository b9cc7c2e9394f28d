// Package metrics provides the centralized Prometheus registry for Skylark.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Write outcomes
const (
	OutcomeInserted = "inserted"
	OutcomeSkipped  = "skipped"
	OutcomeUpserted = "upserted"
)

// Counter metrics
var (
	RowsWrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "rows_written_total",
		Help:      "Rows processed by batch writes, by table and outcome",
	}, []string{"table", "outcome"})
	DuplicateBatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "duplicate_batches_total",
		Help:      "Batches rolled back on a duplicate key and reported as success",
	}, []string{"table"})
	WriteFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "write_failures_total",
		Help:      "Batches rolled back and returned to the caller",
	}, []string{"table"})
	ReadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "read_failures_total",
		Help:      "Reads that failed and were reported as absent",
	}, []string{"query"})
	AnalyticsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "analytics_cache_total",
		Help:      "Analytics cache lookups by result",
	}, []string{"result"})
	ImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skylark",
		Name:      "import_rows_total",
		Help:      "Rows read from the legacy store, by table and status",
	}, []string{"table", "status"})
)

// Histogram metrics
var (
	AnalyticsQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skylark",
		Name:      "analytics_query_seconds",
		Help:      "Duration of temporal aggregate queries in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
	FeatureRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skylark",
		Name:      "feature_refresh_seconds",
		Help:      "Duration of full feature rebuilds in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RowsWrittenTotal)
		registry.MustRegister(DuplicateBatchesTotal)
		registry.MustRegister(WriteFailuresTotal)
		registry.MustRegister(ReadFailuresTotal)
		registry.MustRegister(AnalyticsCacheTotal)
		registry.MustRegister(ImportRowsTotal)

		registry.MustRegister(AnalyticsQueryDuration)
		registry.MustRegister(FeatureRefreshDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBatchWritten records the outcome of a committed batch.
func RecordBatchWritten(table string, written, skipped int, outcome string) {
	RowsWrittenTotal.WithLabelValues(table, outcome).Add(float64(written))
	if skipped > 0 {
		RowsWrittenTotal.WithLabelValues(table, OutcomeSkipped).Add(float64(skipped))
	}
}

// RecordDuplicateBatch records a batch swallowed on a duplicate key.
func RecordDuplicateBatch(table string) {
	DuplicateBatchesTotal.WithLabelValues(table).Inc()
}

// RecordWriteFailure records a batch that failed and was returned.
func RecordWriteFailure(table string) {
	WriteFailuresTotal.WithLabelValues(table).Inc()
}

// RecordReadFailure records a read that was degraded to "absent".
func RecordReadFailure(query string) {
	ReadFailuresTotal.WithLabelValues(query).Inc()
}

// RecordAnalyticsQuery records the duration of one aggregate query.
func RecordAnalyticsQuery(query string, durationSeconds float64) {
	AnalyticsQueryDuration.WithLabelValues(query).Observe(durationSeconds)
}

// RecordCacheLookup records an analytics cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		AnalyticsCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	AnalyticsCacheTotal.WithLabelValues("miss").Inc()
}

// RecordImportRows records rows read from the legacy store.
func RecordImportRows(table, status string, n int) {
	ImportRowsTotal.WithLabelValues(table, status).Add(float64(n))
}

// RecordFeatureRefresh records the duration of a full feature rebuild.
func RecordFeatureRefresh(durationSeconds float64) {
	FeatureRefreshDuration.Observe(durationSeconds)
}
