package api

import (
	"log/slog"
	"net/http"

	"github.com/V4T54L/integrator/internal/adapter/api/handler"
	"github.com/V4T54L/integrator/internal/adapter/api/middleware"
	"github.com/V4T54L/integrator/internal/adapter/metrics"
	"github.com/V4T54L/integrator/internal/pkg/config"
)

// NewRouter creates and configures the public HTTP router.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	registrar handler.AccountRegistrar,
	integrator handler.CredentialIntegrator,
	m *metrics.IntegratorMetrics,
) http.Handler {
	mux := http.NewServeMux()

	registerHandler := handler.NewRegisterHandler(registrar, logger, cfg.MaxBodySize)
	integrateHandler := handler.NewIntegrateHandler(integrator, logger, cfg.MaxBodySize)

	mux.Handle("POST /register", registerHandler)
	mux.Handle("POST /integrate", integrateHandler)

	var h http.Handler = mux
	h = middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst, m)(h)
	h = middleware.Metrics(m)(h)
	h = middleware.Logging(logger)(h)
	return h
}
