package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/army-personnel-api/internal/middleware"
	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/service"
)

type fakeDashboard struct {
	stats    *models.DashboardStats
	items    []models.RankDistributionItem
	cacheHit bool
	err      error
}

func (f *fakeDashboard) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return f.stats, f.cacheHit, f.err
}

func (f *fakeDashboard) RankDistribution(context.Context) ([]models.RankDistributionItem, bool, error) {
	return f.items, f.cacheHit, f.err
}

func serveDashboard(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestDashboardStatsReportsCacheHit(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboard{
		stats:    &models.DashboardStats{TotalPersonnel: 3, ActiveMembers: 2, AveragePoints: 150},
		cacheHit: true,
	})

	rec := serveDashboard(handler.Stats)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cacheHit"])
	assert.Contains(t, envelope.Meta, "processingTimeMs")
	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(envelope.Data, &stats))
	assert.Equal(t, 150, stats.AveragePoints)
}

func TestDashboardRankDistribution(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboard{
		items: []models.RankDistributionItem{{Rank: models.Rank{ID: 1, Name: "Recruit"}, Count: 4}},
	})

	rec := serveDashboard(handler.RankDistribution)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope.Meta["cacheHit"])
	var items []models.RankDistributionItem
	require.NoError(t, json.Unmarshal(envelope.Data, &items))
	assert.Len(t, items, 1)
}

func TestDashboardErrorHidesCause(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboard{err: errors.New("pq: connection refused")})

	rec := serveDashboard(handler.Stats)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})
	router := gin.New()
	router.GET("/ready", handler.Ready)
	router.GET("/health", handler.Health)
	router.GET("/metrics", handler.Prometheus)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
