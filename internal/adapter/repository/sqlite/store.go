// Package sqlite provides the file-backed SQLite storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/V4T54L/integrator/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		tenant_id TEXT NOT NULL,
		realm_id TEXT NOT NULL,
		api_key TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS integrations (
		account_key TEXT NOT NULL,
		bamboo_hr_api_key TEXT NOT NULL
	)`,
}

const uniquePairIndex = `CREATE UNIQUE INDEX IF NOT EXISTS accounts_tenant_realm_idx ON accounts (tenant_id, realm_id)`

// Options tune schema creation.
type Options struct {
	// EnforceUniquePair adds a unique index on (tenant_id, realm_id) so
	// concurrent registrations of one pair cannot both be stored.
	EnforceUniquePair bool
}

// Store persists accounts and integrations in a SQLite database file.
type Store struct {
	db           *sql.DB
	opts         Options
	logger       *slog.Logger
	accounts     *AccountRepository
	integrations *IntegrationRepository
}

// Open opens (creating if needed) the database at path. Call Init before use.
func Open(path string, opts Options, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	// URI DSNs ("file:...") and in-memory databases have no directory to create.
	if dir := filepath.Dir(path); dir != "." && dir != "" && !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: SQLite serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, pragma := range []string{`PRAGMA journal_mode=WAL;`, `PRAGMA busy_timeout=5000;`} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	logger = logger.With("component", "sqlite_store")
	return &Store{
		db:           db,
		opts:         opts,
		logger:       logger,
		accounts:     &AccountRepository{db: db},
		integrations: &IntegrationRepository{db: db},
	}, nil
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

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Accounts returns the account repository.
func (s *Store) Accounts() domain.AccountRepository { return s.accounts }

// Integrations returns the integration repository.
func (s *Store) Integrations() domain.IntegrationRepository { return s.integrations }

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3lib.SQLITE_CONSTRAINT || code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}
