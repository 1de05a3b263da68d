package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/V4T54L/integrator/internal/domain"
)

// AccountRepository implements domain.AccountRepository on PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

// Exists reports whether the exact tenant/realm pair is stored.
func (r *AccountRepository) Exists(ctx context.Context, tenantID, realmID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE tenant_id = $1 AND realm_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, tenantID, realmID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query account: %w", err)
	}
	return exists, nil
}

// Create inserts the account, mapping a unique index violation to ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (tenant_id, realm_id, api_key) VALUES ($1, $2, $3)`,
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
