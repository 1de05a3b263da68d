package mocks

import (
	"context"
	"sync"

	"github.com/V4T54L/integrator/internal/domain"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository for testing.
type MockAccountRepository struct {
	mu        sync.Mutex
	Accounts  []domain.Account
	ExistsErr error
	CreateErr error
	CountErr  error

	ExistsCalls int
	CreateCalls int
}

func (m *MockAccountRepository) Exists(ctx context.Context, tenantID, realmID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, a := range m.Accounts {
		if a.TenantID == tenantID && a.RealmID == realmID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Create(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Accounts = append(m.Accounts, account)
	return nil
}

func (m *MockAccountRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Accounts), nil
}

// MockIntegrationRepository is a mock implementation of domain.IntegrationRepository for testing.
type MockIntegrationRepository struct {
	mu           sync.Mutex
	Integrations []domain.Integration
	CreateErr    error
	ListErr      error
}

func (m *MockIntegrationRepository) Create(ctx context.Context, integration domain.Integration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Integrations = append(m.Integrations, integration)
	return nil
}

func (m *MockIntegrationRepository) ListByAccountKey(ctx context.Context, accountKey string) ([]domain.Integration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Integration
	for _, i := range m.Integrations {
		if i.AccountKey == accountKey {
			out = append(out, i)
		}
	}
	return out, nil
}

// MockStore bundles the mock repositories behind domain.Store.
type MockStore struct {
	AccountRepo     *MockAccountRepository
	IntegrationRepo *MockIntegrationRepository
	InitErr         error
	PingErr         error
	InitCalls       int
	CloseCalls      int
}

// NewMockStore returns a MockStore with empty repositories.
func NewMockStore() *MockStore {
	return &MockStore{
		AccountRepo:     &MockAccountRepository{},
		IntegrationRepo: &MockIntegrationRepository{},
	}
}

func (m *MockStore) Init(ctx context.Context) error {
	m.InitCalls++
	return m.InitErr
}

func (m *MockStore) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockStore) Accounts() domain.AccountRepository { return m.AccountRepo }

func (m *MockStore) Integrations() domain.IntegrationRepository { return m.IntegrationRepo }

func (m *MockStore) Close() error {
	m.CloseCalls++
	return nil
}
