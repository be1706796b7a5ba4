package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestMetricsServiceObserveGeneration(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveGeneration(models.TimetableRunActive, 2*time.Second, 60, 10)
	metrics.ObserveGeneration(models.TimetableRunFailed, time.Second, 0, 0)
	metrics.ObserveHTTPRequest(http.MethodPost, "/api/v1/generate-timetable", http.StatusOK, 20*time.Millisecond)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.GenerationRuns)
	assert.Equal(t, 60, snapshot.LastAssignedSlots)
	assert.Equal(t, 10, snapshot.LastUnfilledCells)
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.InDelta(t, 20.0, snapshot.AverageRequestDurationMs, 0.01)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `timetable_generation_runs_total{status="FAILED"} 1`)
	assert.Contains(t, string(body), "timetable_assigned_slots 60")
	assert.Contains(t, string(body), "timetable_unfilled_cells 10")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveGeneration(models.TimetableRunActive, time.Second, 1, 1)
	metrics.RecordCacheOperation(true, time.Millisecond)
	assert.Equal(t, models.SystemMetrics{}, metrics.Snapshot())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
