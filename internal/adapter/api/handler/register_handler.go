package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/V4T54L/integrator/internal/domain"
)

// AccountRegistrar issues API keys for tenant/realm pairs.
type AccountRegistrar interface {
	Register(ctx context.Context, req domain.RegistrationRequest) (string, error)
}

type registrationPayload struct {
	TenantID *string `json:"tenant_id"`
	RealmID  *string `json:"realm_id"`
}

func (p registrationPayload) request() (domain.RegistrationRequest, error) {
	tenantID, err := required("tenant_id", p.TenantID)
	if err != nil {
		return domain.RegistrationRequest{}, err
	}
	realmID, err := required("realm_id", p.RealmID)
	if err != nil {
		return domain.RegistrationRequest{}, err
	}
	return domain.RegistrationRequest{TenantID: tenantID, RealmID: realmID}, nil
}

// RegisterHandler handles POST /register.
type RegisterHandler struct {
	useCase     AccountRegistrar
	logger      *slog.Logger
	maxBodySize int64
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(uc AccountRegistrar, logger *slog.Logger, maxBodySize int64) *RegisterHandler {
	return &RegisterHandler{
		useCase:     uc,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// ServeHTTP responds 200 with the new API key as a JSON string.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload registrationPayload
	if err := decodeJSON(w, r, h.maxBodySize, &payload); err != nil {
		h.logger.Warn("failed to decode registration request", "error", err)
		writeDecodeError(w, err)
		return
	}
	req, err := payload.request()
	if err != nil {
		h.logger.Warn("failed to decode registration request", "error", err)
		writeDecodeError(w, err)
		return
	}

	apiKey, err := h.useCase.Register(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, apiKey)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, "Invalid tenantId or realmId", http.StatusBadRequest)
	case errors.Is(err, domain.ErrAccountExists):
		http.Error(w, "The provided tenant and realm are already configured", http.StatusConflict)
	default:
		// Detail was logged by the use case.
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
