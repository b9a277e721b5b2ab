package usecase

import (
	"context"

	"github.com/iho/loanledger/internal/domain"
)

// ProposeRateChange allocates a new proposal to change the system
// default interest rate. Any identity with stake may propose.
func (uc *LedgerUseCase) ProposeRateChange(ctx context.Context, caller string, newRate int64) (*domain.Proposal, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	if newRate < 0 {
		return nil, domain.ErrInvalidAmount
	}

	stake, err := uc.stakes.Balance(ctx, caller)
	if err != nil {
		return nil, err
	}
	if stake <= 0 {
		return nil, domain.ErrNotStaker
	}

	proposal := &domain.Proposal{
		ProposedRate: newRate,
		Voters:       make(map[string]bool),
		CreatedAt:    uc.now(),
	}

	id, err := uc.proposals.Insert(ctx, proposal)
	if err != nil {
		return nil, err
	}
	proposal.ID = id

	if err := uc.emit(ctx, domain.AggregateTypeProposal, formatID(id), domain.EventTypeProposalCreated, map[string]any{
		"proposal_id":   id,
		"proposed_rate": newRate,
		"proposer":      caller,
	}); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ProposalsCreated.Inc()
	}

	return proposal.Clone(), nil
}

// Vote adds the caller's current stake balance to the proposal tally.
// The weight is snapshotted here; later stake movements do not touch
// recorded votes. A zero-stake vote is recorded with zero weight.
func (uc *LedgerUseCase) Vote(ctx context.Context, caller string, proposalID uint64, support bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return err
	}

	proposal, err := uc.proposals.Get(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.Finalized {
		return domain.ErrAlreadyFinalized
	}
	if proposal.HasVoted(caller) {
		return domain.ErrAlreadyVoted
	}

	weight, err := uc.stakes.Balance(ctx, caller)
	if err != nil {
		return err
	}

	if support {
		proposal.VotesFor += weight
	} else {
		proposal.VotesAgainst += weight
	}
	proposal.Voters[caller] = true

	if err := uc.proposals.Update(ctx, proposal); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.VotesCast.Inc()
	}

	return nil
}

// FinalizeProposal closes voting once the window has elapsed. A
// passing proposal rewrites the system default rate; either way the
// proposal is finalized exactly once.
func (uc *LedgerUseCase) FinalizeProposal(ctx context.Context, caller string, proposalID uint64) (*domain.Proposal, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	proposal, err := uc.proposals.Get(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.Finalized {
		return nil, domain.ErrAlreadyFinalized
	}
	if uc.now().Before(proposal.CreatedAt.Add(uc.cfg.VotingPeriod)) {
		return nil, domain.ErrTooEarly
	}

	passed := proposal.Passed()
	if passed {
		if err := uc.params.SetDefaultInterestRate(ctx, proposal.ProposedRate); err != nil {
			return nil, err
		}
	}
	proposal.Finalized = true

	if err := uc.proposals.Update(ctx, proposal); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeProposal, formatID(proposalID), domain.EventTypeProposalCompleted, map[string]any{
		"proposal_id": proposalID,
		"passed":      passed,
		"rate":        proposal.ProposedRate,
	}); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ProposalsFinalized.Inc()
	}

	return proposal.Clone(), nil
}

// GetProposal returns a proposal by id.
func (uc *LedgerUseCase) GetProposal(ctx context.Context, proposalID uint64) (*domain.Proposal, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	proposal, err := uc.proposals.Get(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return proposal.Clone(), nil
}

// HasVotedForProposal reports whether the identity voted.
func (uc *LedgerUseCase) HasVotedForProposal(ctx context.Context, proposalID uint64, id string) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	proposal, err := uc.proposals.Get(ctx, proposalID)
	if err != nil {
		return false, err
	}
	return proposal.HasVoted(id), nil
}

// GetTotalProposals returns the count of proposals ever created.
func (uc *LedgerUseCase) GetTotalProposals(ctx context.Context) (uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.proposals.Count(ctx)
}
