package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"signalidea/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
)

// Pinger - *sql.DB под GORM
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConsumerStats - источник статистики Kafka consumer
type ConsumerStats interface {
	GetStats() kafka.ReaderStats
}

type HealthCheckHandler struct {
	db       Pinger
	consumer ConsumerStats
}

func NewHealthCheckHandler(db Pinger, consumer ConsumerStats) *HealthCheckHandler {
	return &HealthCheckHandler{
		db:       db,
		consumer: consumer,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	// ошибки чтения из Kafka не валят healthcheck, reader переподключается сам
	stats := h.consumer.GetStats()
	if stats.Errors > 0 {
		checks["kafka"] = fmt.Sprintf("warning: %d fetch errors, lag %d", stats.Errors, stats.Lag)
	} else {
		checks["kafka"] = fmt.Sprintf("healthy, lag %d", stats.Lag)
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

// Routes собирает chi роутер с healthcheck и метриками Prometheus
func (h *HealthCheckHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/health/readiness", h.Readiness)
	r.Get("/health/liveness", h.Liveness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn().Err(err).Msg("Failed to write health response")
	}
}
