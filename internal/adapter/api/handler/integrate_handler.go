package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/V4T54L/integrator/internal/domain"
)

// CredentialIntegrator records integration credentials.
type CredentialIntegrator interface {
	Integrate(ctx context.Context, req domain.IntegrationRequest) error
}

// integrationPayload distinguishes absent or null fields from empty strings.
type integrationPayload struct {
	AccountUUID    *string `json:"account_uuid"`
	BambooHRAPIKey *string `json:"bamboo_hr_api_key"`
}

func (p integrationPayload) request() (domain.IntegrationRequest, error) {
	accountUUID, err := required("account_uuid", p.AccountUUID)
	if err != nil {
		return domain.IntegrationRequest{}, err
	}
	apiKey, err := required("bamboo_hr_api_key", p.BambooHRAPIKey)
	if err != nil {
		return domain.IntegrationRequest{}, err
	}
	return domain.IntegrationRequest{AccountUUID: accountUUID, BambooHRAPIKey: apiKey}, nil
}

// IntegrateHandler handles POST /integrate.
type IntegrateHandler struct {
	useCase     CredentialIntegrator
	logger      *slog.Logger
	maxBodySize int64
}

// NewIntegrateHandler creates a new IntegrateHandler.
func NewIntegrateHandler(uc CredentialIntegrator, logger *slog.Logger, maxBodySize int64) *IntegrateHandler {
	return &IntegrateHandler{
		useCase:     uc,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// ServeHTTP responds 201 with an empty body once the credential is stored.
func (h *IntegrateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload integrationPayload
	if err := decodeJSON(w, r, h.maxBodySize, &payload); err != nil {
		h.logger.Warn("failed to decode integration request", "error", err)
		writeDecodeError(w, err)
		return
	}
	req, err := payload.request()
	if err != nil {
		h.logger.Warn("failed to decode integration request", "error", err)
		writeDecodeError(w, err)
		return
	}

	err = h.useCase.Integrate(r.Context(), req)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, domain.ErrInvalidUUID):
		http.Error(w, "Invalid UUID", http.StatusBadRequest)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
