package cli

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neboloop/arc-devtools-mcp/internal/browser"
)

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Browser   string `json:"browser"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// newRouter serves /health and /metrics for a running session.
func newRouter(manager *browser.Manager, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(manager))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// healthHandler reports 503 until a connected browser is cached.
func healthHandler(manager *browser.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "healthy",
			Browser:   "connected",
			Version:   Version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK

		if b := manager.Browser(); b == nil || !b.IsConnected() {
			resp.Status = "unavailable"
			resp.Browser = "disconnected"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
