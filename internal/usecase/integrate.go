package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/V4T54L/integrator/internal/adapter/metrics"
	"github.com/V4T54L/integrator/internal/domain"
)

// IntegrateUseCase records third-party credentials against an account key.
type IntegrateUseCase struct {
	repo    domain.IntegrationRepository
	logger  *slog.Logger
	metrics *metrics.IntegratorMetrics
}

// NewIntegrateUseCase creates a new IntegrateUseCase.
func NewIntegrateUseCase(repo domain.IntegrationRepository, logger *slog.Logger, m *metrics.IntegratorMetrics) *IntegrateUseCase {
	return &IntegrateUseCase{
		repo:    repo,
		logger:  logger.With("component", "integrate_usecase"),
		metrics: m,
	}
}

// Integrate stores the credential under the canonical form of the account UUID.
//
// The UUID is only checked for syntax. It is not matched against any issued
// API key, so credentials can be recorded for accounts that do not exist.
func (uc *IntegrateUseCase) Integrate(ctx context.Context, req domain.IntegrationRequest) error {
	id, err := uuid.Parse(req.AccountUUID)
	if err != nil {
		uc.observe(metrics.StatusInvalid)
		return fmt.Errorf("%w: %v", domain.ErrInvalidUUID, err)
	}

	integration := domain.Integration{
		AccountKey:     id.String(),
		BambooHRAPIKey: req.BambooHRAPIKey,
	}
	if err := uc.repo.Create(ctx, integration); err != nil {
		uc.logger.Error("failed to insert integration", "error", err, "account_key", integration.AccountKey)
		uc.observe(metrics.StatusError)
		return err
	}

	uc.observe(metrics.StatusCreated)
	return nil
}

func (uc *IntegrateUseCase) observe(status string) {
	if uc.metrics != nil {
		uc.metrics.IntegrationsTotal.WithLabelValues(status).Inc()
	}
}
