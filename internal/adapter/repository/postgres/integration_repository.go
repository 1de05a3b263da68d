package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/V4T54L/integrator/internal/domain"
)

// IntegrationRepository implements domain.IntegrationRepository on PostgreSQL.
type IntegrationRepository struct {
	db *sql.DB
}

// Create inserts one integration row.
func (r *IntegrationRepository) Create(ctx context.Context, integration domain.Integration) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO integrations (account_key, bamboo_hr_api_key) VALUES ($1, $2)`,
		integration.AccountKey, integration.BambooHRAPIKey,
	)
	if err != nil {
		return fmt.Errorf("insert integration: %w", err)
	}
	return nil
}

// ListByAccountKey returns the integrations stored under accountKey in insertion order.
func (r *IntegrationRepository) ListByAccountKey(ctx context.Context, accountKey string) ([]domain.Integration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_key, bamboo_hr_api_key FROM integrations WHERE account_key = $1 ORDER BY id`,
		accountKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query integrations: %w", err)
	}
	defer rows.Close()

	var out []domain.Integration
	for rows.Next() {
		var i domain.Integration
		if err := rows.Scan(&i.AccountKey, &i.BambooHRAPIKey); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
