package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordBatchWritten(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("horse", OutcomeInserted))
	skippedBefore := testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("horse", OutcomeSkipped))

	RecordBatchWritten("horse", 7, 3, OutcomeInserted)

	assert.Equal(t, before+7, testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("horse", OutcomeInserted)))
	assert.Equal(t, skippedBefore+3, testutil.ToFloat64(RowsWrittenTotal.WithLabelValues("horse", OutcomeSkipped)))
}

func TestRecordDuplicateAndFailure(t *testing.T) {
	InitRegistry()

	dup := testutil.ToFloat64(DuplicateBatchesTotal.WithLabelValues("payoff"))
	fail := testutil.ToFloat64(WriteFailuresTotal.WithLabelValues("payoff"))

	RecordDuplicateBatch("payoff")
	RecordWriteFailure("payoff")

	assert.Equal(t, dup+1, testutil.ToFloat64(DuplicateBatchesTotal.WithLabelValues("payoff")))
	assert.Equal(t, fail+1, testutil.ToFloat64(WriteFailuresTotal.WithLabelValues("payoff")))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()

	hits := testutil.ToFloat64(AnalyticsCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(AnalyticsCacheTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(AnalyticsCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(AnalyticsCacheTotal.WithLabelValues("miss")))
}

func TestHistogramsDoNotPanic(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordAnalyticsQuery("speed_figure_avg", 0.004)
		RecordFeatureRefresh(12.5)
		RecordReadFailure("race_result")
		RecordImportRows("horse", "imported", 10)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordBatchWritten("jockey", 1, 0, OutcomeInserted)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skylark_rows_written_total")
}
