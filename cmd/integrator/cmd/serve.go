package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/V4T54L/integrator/internal/adapter/api"
	"github.com/V4T54L/integrator/internal/adapter/metrics"
	"github.com/V4T54L/integrator/internal/adapter/repository"
	"github.com/V4T54L/integrator/internal/domain"
	"github.com/V4T54L/integrator/internal/pkg/config"
	"github.com/V4T54L/integrator/internal/usecase"
)

// storeOpener constructs the configured storage backend.
type storeOpener func(cfg *config.Config, logger *slog.Logger) (domain.Store, error)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Initialize storage and serve the registration and integration API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		return runServe(context.Background(), cfg, logger, repository.Open, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	},
}

// openStorage opens the backend and creates its schema. The store is closed
// again when schema setup fails.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, open storeOpener) (domain.Store, error) {
	store, err := open(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "driver", cfg.StorageDriver)
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		logger.Error("failed to initialize database", "error", err)
		_ = store.Close()
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	accounts, err := store.Accounts().Count(ctx)
	if err != nil {
		logger.Error("failed to count accounts", "error", err)
		_ = store.Close()
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	logger.Info("storage schema ready", "driver", cfg.StorageDriver, "dsn", redactDSN(cfg.StorageDSN), "accounts", accounts)
	return store, nil
}

// runServe blocks until ctx is cancelled or a termination signal arrives.
// No listener is started unless storage is open and initialized.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, open storeOpener, reg prometheus.Registerer, gatherer prometheus.Gatherer) error {
	// --- Storage (fatal on failure: never serve without a schema) ---
	store, err := openStorage(ctx, cfg, logger, open)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewIntegratorMetrics(reg)

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Admin and Metrics Server ---
	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: api.NewAdminRouter(store, gatherer, logger),
	}
	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Use Cases and API Server ---
	registerUseCase := usecase.NewRegisterAccountUseCase(store.Accounts(), logger, m)
	integrateUseCase := usecase.NewIntegrateUseCase(store.Integrations(), logger, m)

	apiServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      api.NewRouter(cfg, logger, registerUseCase, integrateUseCase, m),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting api server", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
			serveErr <- err
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}

	select {
	case err := <-serveErr:
		return err
	default:
	}
	logger.Info("servers shut down gracefully")
	return nil
}

// redactDSN hides credentials in a URL-style DSN before logging it.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
