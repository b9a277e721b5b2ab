package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/auth"
)

// AuthHandler mints bearer tokens for ledger identities. There is no
// user database: identities are opaque strings, so the endpoint is a
// development convenience and should sit behind the deployment's own
// access control in anything public.
type AuthHandler struct {
	jwtManager *auth.JWTManager
	ownerID    string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtManager *auth.JWTManager, ownerID string) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
		ownerID:    ownerID,
	}
}

// Token mints a token for the requested identity. The owner flag is
// only honored when the identity matches the configured owner.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.CallerID == "" {
		writeError(w, http.StatusBadRequest, "missing caller_id", "")
		return
	}

	caller := domain.Caller{
		ID:    req.CallerID,
		Owner: req.Owner && req.CallerID == h.ownerID,
	}

	token, err := h.jwtManager.Generate(caller)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}
