package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, borrower string, input usecase.CreateLoanInput) (*domain.Loan, error)
	MakePartialPayment(ctx context.Context, caller string, loanID uint64, value int64) (*domain.Loan, error)
	ExtendLoanDuration(ctx context.Context, caller string, loanID uint64, extraDays int64) (*domain.Loan, error)
	RenegotiateInterestRate(ctx context.Context, caller string, loanID uint64, newRate int64) (*domain.Loan, error)
	CancelLoan(ctx context.Context, caller string, loanID uint64) (*domain.Loan, error)
	MarkDefaulted(ctx context.Context, caller string, loanID uint64) (*domain.Loan, error)
	WithdrawBalance(ctx context.Context, caller string) (int64, error)
	GetLoan(ctx context.Context, loanID uint64) (*domain.Loan, error)
	CalculateDetailedAmounts(ctx context.Context, loanID uint64) (domain.Breakdown, error)
	GetRemainingAmount(ctx context.Context, loanID uint64) (int64, error)
	GetPendingWithdrawal(ctx context.Context, id string) (int64, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create opens a loan for the calling borrower.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	borrower, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), borrower, input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// GetAmounts returns the accrued amount breakdown for a loan.
func (h *LoanHandler) GetAmounts(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	breakdown, err := h.loanUC.CalculateDetailedAmounts(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to calculate amounts", err.Error())
		return
	}

	remaining, err := h.loanUC.GetRemainingAmount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to calculate remaining", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BreakdownFromDomain(breakdown, remaining))
}

// Pay records a payment against a loan by the calling borrower.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	value, err := req.BaseUnits()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	loan, err := h.loanUC.MakePartialPayment(r.Context(), caller, id, value)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Extend adds duration days to a loan.
func (h *LoanHandler) Extend(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	var req dto.ExtendLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.ExtendLoanDuration(r.Context(), caller, id, req.ExtraDays)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to extend loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Renegotiate changes a loan's interest rate.
func (h *LoanHandler) Renegotiate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	var req dto.RenegotiateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RenegotiateInterestRate(r.Context(), caller, id, req.NewRate)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to renegotiate rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Cancel cancels an active loan and credits the principal back.
func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	loan, err := h.loanUC.CancelLoan(r.Context(), caller, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Default marks a past-due loan as defaulted.
func (h *LoanHandler) Default(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan ID", err.Error())
		return
	}

	loan, err := h.loanUC.MarkDefaulted(r.Context(), caller, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mark loan defaulted", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Withdraw drains the caller's pending withdrawal balance.
func (h *LoanHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	amount, err := h.loanUC.WithdrawBalance(r.Context(), caller)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalResponse{
		Caller: caller,
		Amount: decimal.NewFromInt(amount),
	})
}

// GetBalance reports an identity's pending withdrawal balance.
func (h *LoanHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing identity", "")
		return
	}

	pending, err := h.loanUC.GetPendingWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		ID:      id,
		Pending: decimal.NewFromInt(pending),
	})
}
