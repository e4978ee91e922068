package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/personnel", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/point-entries", http.StatusCreated, 40*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordPointEntry()
	m.RecordPromotion()
	m.RecordLogin(false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.Requests)
	assert.InDelta(t, 30, snap.AvgRequestMillis, 0.001)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.001)
	assert.Equal(t, uint64(1), snap.PointEntries)
	assert.Equal(t, uint64(1), snap.Promotions)
	assert.Positive(t, snap.Goroutines)
}

func TestMetricsServiceHandlerExposesDomainCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordPointEntry()
	m.RecordLogin(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "point_entries_created_total 1")
	assert.Contains(t, body, `login_attempts_total{result="success"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordPointEntry()
	m.ObserveDBQuery("noop", time.Millisecond)
	assert.Zero(t, m.Snapshot().Requests)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
