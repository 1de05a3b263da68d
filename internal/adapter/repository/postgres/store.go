// Package postgres provides a PostgreSQL storage implementation for
// deployments that already run a shared database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/V4T54L/integrator/internal/domain"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		tenant_id TEXT NOT NULL,
		realm_id TEXT NOT NULL,
		api_key TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS integrations (
		id BIGSERIAL PRIMARY KEY,
		account_key TEXT NOT NULL,
		bamboo_hr_api_key TEXT NOT NULL
	)`,
}

const uniquePairIndex = `CREATE UNIQUE INDEX IF NOT EXISTS accounts_tenant_realm_idx ON accounts (tenant_id, realm_id)`

// Options tune schema creation.
type Options struct {
	EnforceUniquePair bool
}

// Store persists accounts and integrations in PostgreSQL.
type Store struct {
	db           *sql.DB
	opts         Options
	logger       *slog.Logger
	accounts     *AccountRepository
	integrations *IntegrationRepository
}

// Open connects to the database described by dsn. Call Init before use.
func Open(dsn string, opts Options, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return newStore(db, opts, logger), nil
}

func newStore(db *sql.DB, opts Options, logger *slog.Logger) *Store {
	return &Store{
		db:           db,
		opts:         opts,
		logger:       logger.With("component", "postgres_store"),
		accounts:     &AccountRepository{db: db},
		integrations: &IntegrationRepository{db: db},
	}
}

// Init creates both tables if absent. Existing rows are never touched.
func (s *Store) Init(ctx context.Context) error {
	stmts := schema
	if s.opts.EnforceUniquePair {
		stmts = append(stmts[:len(stmts):len(stmts)], uniquePairIndex)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	s.logger.Info("storage initialized", "enforce_unique_pair", s.opts.EnforceUniquePair)
	return nil
}

// Ping checks the connection pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Accounts returns the account repository.
func (s *Store) Accounts() domain.AccountRepository { return s.accounts }

// Integrations returns the integration repository.
func (s *Store) Integrations() domain.IntegrationRepository { return s.integrations }

// Close closes the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
