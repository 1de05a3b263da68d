package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/V4T54L/integrator/internal/adapter/api/handler"
)

// NewAdminRouter creates the operator-facing router: health checks and metrics.
func NewAdminRouter(store handler.Pinger, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	healthHandler := handler.NewHealthHandler(store, logger)

	mux.HandleFunc("GET /health", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
