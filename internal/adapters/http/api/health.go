package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/types"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", noStore)
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
