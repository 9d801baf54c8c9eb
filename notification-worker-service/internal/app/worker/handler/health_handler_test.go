package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error {
	return p.err
}

type stubStats struct {
	stats kafka.ReaderStats
}

func (s stubStats) GetStats() kafka.ReaderStats {
	return s.stats
}

func serve(t *testing.T, h *HealthCheckHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthCheck_Healthy(t *testing.T) {
	// Arrange
	h := NewHealthCheckHandler(stubPinger{}, stubStats{kafka.ReaderStats{Lag: 4}})

	// Act
	rec := serve(t, h, "/health")

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "healthy", response.Checks["database"])
	assert.Equal(t, "healthy, lag 4", response.Checks["kafka"])
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	h := NewHealthCheckHandler(stubPinger{err: errors.New("connection refused")}, stubStats{})

	rec := serve(t, h, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "unhealthy: connection refused", response.Checks["database"])
}

func TestHealthCheck_KafkaErrorsAreWarnings(t *testing.T) {
	h := NewHealthCheckHandler(stubPinger{}, stubStats{kafka.ReaderStats{Errors: 2, Lag: 10}})

	rec := serve(t, h, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "warning: 2 fetch errors, lag 10", response.Checks["kafka"])
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
	}{
		{"ready", nil, http.StatusOK},
		{"database down", errors.New("timeout"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthCheckHandler(stubPinger{err: tt.pingErr}, stubStats{})

			rec := serve(t, h, "/health/readiness")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestLiveness(t *testing.T) {
	h := NewHealthCheckHandler(stubPinger{err: errors.New("ignored")}, stubStats{})

	rec := serve(t, h, "/health/liveness")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}

func TestRoutes_Metrics(t *testing.T) {
	h := NewHealthCheckHandler(stubPinger{}, stubStats{})

	rec := serve(t, h, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	h := NewHealthCheckHandler(stubPinger{}, stubStats{})

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
