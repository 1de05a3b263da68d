package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
	"github.com/V4T54L/integrator/internal/domain"
	"github.com/V4T54L/integrator/internal/domain/mocks"
)

func TestRegisterAccountUseCase_Register(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	valid := domain.RegistrationRequest{TenantID: "ABCDEFGHIJ", RealmID: "0123456789"}

	t.Run("Successful Registration", func(t *testing.T) {
		m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
		mockRepo := &mocks.MockAccountRepository{}
		uc := NewRegisterAccountUseCase(mockRepo, logger, m)

		key, err := uc.Register(context.Background(), valid)
		require.NoError(t, err)

		_, err = uuid.Parse(key)
		assert.NoError(t, err, "api key should be a UUID")
		require.Len(t, mockRepo.Accounts, 1)
		assert.Equal(t, domain.Account{TenantID: valid.TenantID, RealmID: valid.RealmID, APIKey: key}, mockRepo.Accounts[0])
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.StatusCreated)))
	})

	t.Run("Keys Are Unique", func(t *testing.T) {
		mockRepo := &mocks.MockAccountRepository{}
		uc := NewRegisterAccountUseCase(mockRepo, logger, nil)

		k1, err := uc.Register(context.Background(), valid)
		require.NoError(t, err)
		k2, err := uc.Register(context.Background(), domain.RegistrationRequest{TenantID: "ZZZZZZZZZZ", RealmID: "0123456789"})
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("Invalid Input Touches No Storage", func(t *testing.T) {
		bad := []domain.RegistrationRequest{
			{TenantID: "short", RealmID: "0123456789"},
			{TenantID: "ABCDEFGHIJ", RealmID: "0123-56789"},
			{TenantID: "", RealmID: ""},
			{TenantID: "ABCDEFGHIJK", RealmID: "0123456789"},
		}
		for _, req := range bad {
			m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
			mockRepo := &mocks.MockAccountRepository{}
			uc := NewRegisterAccountUseCase(mockRepo, logger, m)

			_, err := uc.Register(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "request %+v", req)
			assert.Zero(t, mockRepo.ExistsCalls)
			assert.Zero(t, mockRepo.CreateCalls)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.StatusInvalid)))
		}
	})

	t.Run("Duplicate Pair", func(t *testing.T) {
		mockRepo := &mocks.MockAccountRepository{
			Accounts: []domain.Account{{TenantID: valid.TenantID, RealmID: valid.RealmID, APIKey: "existing"}},
		}
		uc := NewRegisterAccountUseCase(mockRepo, logger, nil)

		_, err := uc.Register(context.Background(), valid)
		assert.ErrorIs(t, err, domain.ErrAccountExists)
		assert.Zero(t, mockRepo.CreateCalls, "a conflict must not write")
	})

	t.Run("Lookup Error", func(t *testing.T) {
		mockRepo := &mocks.MockAccountRepository{ExistsErr: errors.New("disk I/O error")}
		uc := NewRegisterAccountUseCase(mockRepo, logger, nil)

		_, err := uc.Register(context.Background(), valid)
		require.Error(t, err)
		assert.EqualError(t, err, "disk I/O error")
		assert.Zero(t, mockRepo.CreateCalls)
	})

	t.Run("Insert Loses Race", func(t *testing.T) {
		m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
		mockRepo := &mocks.MockAccountRepository{CreateErr: domain.ErrAccountExists}
		uc := NewRegisterAccountUseCase(mockRepo, logger, m)

		_, err := uc.Register(context.Background(), valid)
		assert.ErrorIs(t, err, domain.ErrAccountExists)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.StatusConflict)))
	})

	t.Run("Insert Error", func(t *testing.T) {
		m := metrics.NewIntegratorMetrics(prometheus.NewRegistry())
		mockRepo := &mocks.MockAccountRepository{CreateErr: errors.New("database is locked")}
		uc := NewRegisterAccountUseCase(mockRepo, logger, m)

		_, err := uc.Register(context.Background(), valid)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrAccountExists)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(metrics.StatusError)))
	})
}
