package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
	"github.com/V4T54L/integrator/internal/domain"
)

// RegisterAccountUseCase issues API keys to new tenant/realm pairs.
type RegisterAccountUseCase struct {
	repo      domain.AccountRepository
	validate  *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.IntegratorMetrics
	newAPIKey func() string
}

// NewRegisterAccountUseCase creates a new RegisterAccountUseCase.
func NewRegisterAccountUseCase(repo domain.AccountRepository, logger *slog.Logger, m *metrics.IntegratorMetrics) *RegisterAccountUseCase {
	return &RegisterAccountUseCase{
		repo:      repo,
		validate:  newValidator(),
		logger:    logger.With("component", "register_usecase"),
		metrics:   m,
		newAPIKey: uuid.NewString,
	}
}

// Register validates the pair, rejects it if already configured, and
// otherwise stores a new account under a freshly generated API key.
func (uc *RegisterAccountUseCase) Register(ctx context.Context, req domain.RegistrationRequest) (string, error) {
	// 1. Validate before touching storage
	if err := uc.validate.Struct(req); err != nil {
		uc.observe(metrics.StatusInvalid)
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// 2. Check for an existing registration
	exists, err := uc.repo.Exists(ctx, req.TenantID, req.RealmID)
	if err != nil {
		uc.logger.Error("failed to look up account", "error", err, "tenant_id", req.TenantID, "realm_id", req.RealmID)
		uc.observe(metrics.StatusError)
		return "", err
	}
	if exists {
		uc.observe(metrics.StatusConflict)
		return "", domain.ErrAccountExists
	}

	// 3. Issue and persist the key. A concurrent registration of the same
	// pair can get past step 2; the store's unique index (when enabled)
	// reports it here as ErrAccountExists.
	account := domain.Account{
		TenantID: req.TenantID,
		RealmID:  req.RealmID,
		APIKey:   uc.newAPIKey(),
	}
	if err := uc.repo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			uc.observe(metrics.StatusConflict)
			return "", err
		}
		uc.logger.Error("failed to insert account", "error", err, "tenant_id", req.TenantID, "realm_id", req.RealmID)
		uc.observe(metrics.StatusError)
		return "", err
	}

	uc.observe(metrics.StatusCreated)
	return account.APIKey, nil
}

func (uc *RegisterAccountUseCase) observe(status string) {
	if uc.metrics != nil {
		uc.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}
