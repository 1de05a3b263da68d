package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/V4T54L/integrator/internal/domain"
)

// AccountRepository implements domain.AccountRepository on SQLite.
type AccountRepository struct {
	db *sql.DB
}

// Exists reports whether the exact tenant/realm pair is stored.
func (r *AccountRepository) Exists(ctx context.Context, tenantID, realmID string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id FROM accounts WHERE tenant_id = ? AND realm_id = ? LIMIT 1`,
		tenantID, realmID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query account: %w", err)
	}
	return true, nil
}

// Create inserts the account, mapping a unique index violation to ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (tenant_id, realm_id, api_key) VALUES (?, ?, ?)`,
		account.TenantID, account.RealmID, account.APIKey,
	)
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Count returns the number of stored accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}
