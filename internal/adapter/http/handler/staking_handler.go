package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/adapter/http/dto"
)

// StakingService defines the behavior needed by StakingHandler.
type StakingService interface {
	AddStake(ctx context.Context, caller string, amount int64) (int64, error)
	WithdrawStake(ctx context.Context, caller string, amount int64) (int64, error)
	GetStakeBalance(ctx context.Context, id string) (int64, error)
	GetTotalStaked(ctx context.Context) (int64, error)
}

// StakingHandler handles staking-related HTTP requests.
type StakingHandler struct {
	stakingUC StakingService
}

// NewStakingHandler creates a new StakingHandler.
func NewStakingHandler(stakingUC StakingService) *StakingHandler {
	return &StakingHandler{stakingUC: stakingUC}
}

// Deposit adds stake for the caller.
func (h *StakingHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	amount, err := req.BaseUnits()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	balance, err := h.stakingUC.AddStake(r.Context(), caller, amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add stake", err.Error())
		return
	}

	h.writeStake(w, r, http.StatusCreated, caller, balance)
}

// Withdraw removes stake for the caller.
func (h *StakingHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	amount, err := req.BaseUnits()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	balance, err := h.stakingUC.WithdrawStake(r.Context(), caller, amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw stake", err.Error())
		return
	}

	h.writeStake(w, r, http.StatusOK, caller, balance)
}

// Get reports a staker's balance.
func (h *StakingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing staker identity", "")
		return
	}

	balance, err := h.stakingUC.GetStakeBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stake balance", err.Error())
		return
	}

	h.writeStake(w, r, http.StatusOK, id, balance)
}

// GetPool reports the pool-wide staked total.
func (h *StakingHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	total, err := h.stakingUC.GetTotalStaked(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get total staked", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PoolResponse{
		TotalStaked: decimal.NewFromInt(total),
	})
}

func (h *StakingHandler) writeStake(w http.ResponseWriter, r *http.Request, status int, staker string, balance int64) {
	total, err := h.stakingUC.GetTotalStaked(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get total staked", err.Error())
		return
	}

	writeJSON(w, status, dto.StakeResponse{
		Staker:  staker,
		Balance: decimal.NewFromInt(balance),
		Total:   decimal.NewFromInt(total),
	})
}
