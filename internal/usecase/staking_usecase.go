package usecase

import (
	"context"

	"github.com/iho/loanledger/internal/domain"
)

// AddStake deposits amount into the caller's staking balance and the
// pool total. Returns the caller's new balance.
func (uc *LedgerUseCase) AddStake(ctx context.Context, caller string, amount int64) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	if err := uc.stakes.Add(ctx, caller, amount); err != nil {
		return 0, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeStake, caller, domain.EventTypeStakeAdded, map[string]any{
		"staker": caller,
		"amount": amount,
	}); err != nil {
		return 0, err
	}

	balance, err := uc.stakes.Balance(ctx, caller)
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.StakeDeposits.Inc()
		uc.observeTotalStaked(ctx)
	}

	return balance, nil
}

// WithdrawStake removes amount from the caller's staking balance.
// Recorded proposal votes keep the weight snapshotted when the vote
// was cast; withdrawing afterwards does not rewrite tallies.
func (uc *LedgerUseCase) WithdrawStake(ctx context.Context, caller string, amount int64) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	balance, err := uc.stakes.Balance(ctx, caller)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, domain.ErrInsufficientStake
	}

	if err := uc.stakes.Add(ctx, caller, -amount); err != nil {
		return 0, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeStake, caller, domain.EventTypeStakeWithdrawn, map[string]any{
		"staker": caller,
		"amount": amount,
	}); err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.StakeWithdrawals.Inc()
		uc.observeTotalStaked(ctx)
	}

	return balance - amount, nil
}

// GetStakeBalance returns an identity's staked amount.
func (uc *LedgerUseCase) GetStakeBalance(ctx context.Context, id string) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.stakes.Balance(ctx, id)
}

// GetTotalStaked returns the pool total.
func (uc *LedgerUseCase) GetTotalStaked(ctx context.Context) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.stakes.Total(ctx)
}

func (uc *LedgerUseCase) observeTotalStaked(ctx context.Context) {
	total, err := uc.stakes.Total(ctx)
	if err != nil {
		return
	}
	uc.metrics.TotalStaked.Set(float64(total))
}
