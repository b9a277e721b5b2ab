package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loanledger/internal/adapter/http/dto"
	"github.com/iho/loanledger/internal/domain"
)

// GovernanceService defines the behavior needed by GovernanceHandler.
type GovernanceService interface {
	ProposeRateChange(ctx context.Context, caller string, newRate int64) (*domain.Proposal, error)
	Vote(ctx context.Context, caller string, proposalID uint64, support bool) error
	FinalizeProposal(ctx context.Context, caller string, proposalID uint64) (*domain.Proposal, error)
	GetProposal(ctx context.Context, proposalID uint64) (*domain.Proposal, error)
	HasVotedForProposal(ctx context.Context, proposalID uint64, id string) (bool, error)
}

// GovernanceHandler handles governance-related HTTP requests.
type GovernanceHandler struct {
	governanceUC GovernanceService
}

// NewGovernanceHandler creates a new GovernanceHandler.
func NewGovernanceHandler(governanceUC GovernanceService) *GovernanceHandler {
	return &GovernanceHandler{governanceUC: governanceUC}
}

// Propose opens a rate change proposal.
func (h *GovernanceHandler) Propose(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.ProposeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	proposal, err := h.governanceUC.ProposeRateChange(r.Context(), caller, req.NewRate)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create proposal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProposalFromDomain(proposal))
}

// Vote casts the caller's stake-weighted vote.
func (h *GovernanceHandler) Vote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal ID", err.Error())
		return
	}

	var req dto.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.governanceUC.Vote(r.Context(), caller, id, req.Support); err != nil {
		writeError(w, mapDomainError(err), "failed to record vote", err.Error())
		return
	}

	proposal, err := h.governanceUC.GetProposal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get proposal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProposalFromDomain(proposal))
}

// Finalize closes a proposal after its voting window.
func (h *GovernanceHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal ID", err.Error())
		return
	}

	proposal, err := h.governanceUC.FinalizeProposal(r.Context(), caller, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to finalize proposal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProposalFromDomain(proposal))
}

// GetVote reports whether an identity has voted on a proposal.
func (h *GovernanceHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal ID", err.Error())
		return
	}

	voter := chi.URLParam(r, "caller")
	if voter == "" {
		writeError(w, http.StatusBadRequest, "missing voter identity", "")
		return
	}

	voted, err := h.governanceUC.HasVotedForProposal(r.Context(), id, voter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get vote status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoteStatusResponse{
		ProposalID: id,
		Voter:      voter,
		Voted:      voted,
	})
}

// Get retrieves a proposal by ID.
func (h *GovernanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal ID", err.Error())
		return
	}

	proposal, err := h.governanceUC.GetProposal(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get proposal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProposalFromDomain(proposal))
}
