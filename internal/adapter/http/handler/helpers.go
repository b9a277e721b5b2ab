package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValueMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotBorrower):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotStaker):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrLenderNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProposalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSystemPaused):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOverPayment):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStake):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotPastDue):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNothingToWithdraw):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyFinalized):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTooEarly):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// callerID extracts the authenticated caller identity, writing a 401
// and returning false when none is present.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, ok := domain.CallerFromContext(r.Context())
	if !ok || caller.ID == "" {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return "", false
	}
	return caller.ID, true
}

// parseIDParam parses the {id} route parameter as a ledger id.
func parseIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseUintQuery parses an unsigned query parameter with a default value.
func parseUintQuery(r *http.Request, key string, defaultValue uint64) uint64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	u, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return u
}
