// Package repository selects the storage backend named in configuration.
package repository

import (
	"fmt"
	"log/slog"

	"github.com/V4T54L/integrator/internal/adapter/repository/postgres"
	"github.com/V4T54L/integrator/internal/adapter/repository/sqlite"
	"github.com/V4T54L/integrator/internal/domain"
	"github.com/V4T54L/integrator/internal/pkg/config"
)

// Open returns the configured store. The schema is not created until Init.
func Open(cfg *config.Config, logger *slog.Logger) (domain.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.StorageDSN, sqlite.Options{EnforceUniquePair: cfg.EnforceUniquePair}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Open(cfg.StorageDSN, postgres.Options{EnforceUniquePair: cfg.EnforceUniquePair}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
