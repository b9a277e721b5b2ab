package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/usecase"
)

// AdminService defines the behavior needed by AdminHandler.
type AdminService interface {
	TogglePause(ctx context.Context, caller string) (bool, error)
	SetAuthorizedLender(ctx context.Context, caller, lender string, authorized bool) error
	SetBorrowerLimit(ctx context.Context, caller, borrower string, limit int64) error
	GetStats(ctx context.Context) (usecase.Stats, error)
}

// AdminHandler handles owner-only administrative requests.
type AdminHandler struct {
	adminUC AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminUC AdminService) *AdminHandler {
	return &AdminHandler{adminUC: adminUC}
}

// TogglePause flips the system pause flag.
func (h *AdminHandler) TogglePause(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	paused, err := h.adminUC.TogglePause(r.Context(), caller)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to toggle pause", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PauseResponse{Paused: paused})
}

// SetLender flips a lender's authorization flag.
func (h *AdminHandler) SetLender(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.SetLenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.adminUC.SetAuthorizedLender(r.Context(), caller, req.Lender, req.Authorized); err != nil {
		writeError(w, mapDomainError(err), "failed to set lender authorization", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetBorrowerLimit caps a borrower's principal.
func (h *AdminHandler) SetBorrowerLimit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.SetBorrowerLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	limit, err := req.BaseUnits()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}

	if err := h.adminUC.SetBorrowerLimit(r.Context(), caller, req.Borrower, limit); err != nil {
		writeError(w, mapDomainError(err), "failed to set borrower limit", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats summarizes the ledger.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUC.GetStats(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatsFromUseCase(stats))
}
