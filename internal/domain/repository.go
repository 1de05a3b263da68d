package domain

import "context"

// AccountRepository persists registered accounts.
type AccountRepository interface {
	// Exists reports whether an account with exactly this tenant and realm is stored.
	Exists(ctx context.Context, tenantID, realmID string) (bool, error)

	// Create inserts a new account. Implementations that enforce pair
	// uniqueness return ErrAccountExists when the insert violates it.
	Create(ctx context.Context, account Account) error

	// Count returns the number of stored accounts.
	Count(ctx context.Context) (int, error)
}

// IntegrationRepository persists integration credentials.
type IntegrationRepository interface {
	// Create inserts a new integration row. No uniqueness is enforced.
	Create(ctx context.Context, integration Integration) error

	// ListByAccountKey returns every integration stored under the key.
	ListByAccountKey(ctx context.Context, accountKey string) ([]Integration, error)
}

// Store is a durable backend holding both tables.
type Store interface {
	// Init creates the schema if absent. It is safe to call on every start.
	Init(ctx context.Context) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	Accounts() AccountRepository
	Integrations() IntegrationRepository

	Close() error
}
