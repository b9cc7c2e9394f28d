package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "skylark", Version: "1.2.3", Logger: logger.Discard()})
	h := s.Handler()

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)

	assert.Equal(t, http.StatusOK, get(t, h, "/live").Code)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		ready  bool
		db     DatabasePinger
		status int
		checks map[string]string
	}{
		{"not marked ready", false, nil, http.StatusServiceUnavailable, map[string]string{"service": "not_ready"}},
		{"ready without db", true, nil, http.StatusOK, map[string]string{"service": "ok"}},
		{"ready with db", true, stubPinger{}, http.StatusOK, map[string]string{"service": "ok", "database": "ok"}},
		{"db down", true, stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable,
			map[string]string{"service": "ok", "database": "error: refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "skylark", DB: tt.db})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.status, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.checks, body.Checks)
		})
	}
}

type stubScheduler struct {
	running bool
	next    time.Time
}

func (s stubScheduler) IsRunning() bool       { return s.running }
func (s stubScheduler) GetNextRun() time.Time { return s.next }

func TestReadySchedulerCheck(t *testing.T) {
	next := time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)

	s := NewServer(Config{ServiceName: "skylark", Scheduler: stubScheduler{running: true, next: next}})
	s.SetReady(true)
	rec := get(t, s.Handler(), "/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["scheduler"])
	assert.Equal(t, "2024-03-02T03:00:00Z", body.Checks["scheduler_next_run"])

	s = NewServer(Config{ServiceName: "skylark", Scheduler: stubScheduler{}})
	s.SetReady(true)
	rec = get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var stopped ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stopped))
	assert.Equal(t, "stopped", stopped.Checks["scheduler"])
}

func TestMetricsRoute(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordDuplicateBatch("horse")

	s := NewServer(Config{ServiceName: "skylark", MetricsPath: "/prom", MetricsHandler: metrics.Handler()})
	rec := get(t, s.Handler(), "/prom")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skylark_duplicate_batches_total")

	bare := NewServer(Config{ServiceName: "skylark"})
	assert.Equal(t, http.StatusNotFound, get(t, bare.Handler(), "/metrics").Code)
}
