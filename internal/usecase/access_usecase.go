package usecase

import (
	"context"

	"github.com/iho/loanledger/internal/domain"
)

// TogglePause flips the system pause flag. Owner-only; works while
// paused, otherwise the pause could never be lifted.
func (uc *LedgerUseCase) TogglePause(ctx context.Context, caller string) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireOwner(ctx, caller); err != nil {
		return false, err
	}

	paused, err := uc.params.Paused(ctx)
	if err != nil {
		return false, err
	}

	paused = !paused
	if err := uc.params.SetPaused(ctx, paused); err != nil {
		return false, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeSystem, "system", domain.EventTypeContractPaused, map[string]any{
		"paused": paused,
	}); err != nil {
		return false, err
	}

	if uc.metrics != nil {
		uc.metrics.SetPaused(paused)
	}

	return paused, nil
}

// SetAuthorizedLender sets or clears a lender authorization flag.
// Owner-only, idempotent.
func (uc *LedgerUseCase) SetAuthorizedLender(ctx context.Context, caller, lender string, authorized bool) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireOwner(ctx, caller); err != nil {
		return err
	}

	return uc.params.SetAuthorizedLender(ctx, lender, authorized)
}

// SetBorrowerLimit sets or overwrites a borrower's loan-amount cap.
// Owner-only. An unset limit means no cap.
func (uc *LedgerUseCase) SetBorrowerLimit(ctx context.Context, caller, borrower string, limit int64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireOwner(ctx, caller); err != nil {
		return err
	}
	if limit < 0 {
		return domain.ErrInvalidAmount
	}

	return uc.params.SetBorrowerLimit(ctx, borrower, limit)
}

// Paused reports the pause flag.
func (uc *LedgerUseCase) Paused(ctx context.Context) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.params.Paused(ctx)
}

// IsAuthorizedLender reports a lender's authorization flag.
func (uc *LedgerUseCase) IsAuthorizedLender(ctx context.Context, lender string) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.params.AuthorizedLender(ctx, lender)
}

// GetBorrowerLimit returns a borrower's cap and whether one is set.
func (uc *LedgerUseCase) GetBorrowerLimit(ctx context.Context, borrower string) (int64, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.params.BorrowerLimit(ctx, borrower)
}

// DefaultInterestRate returns the governance-controlled default rate.
func (uc *LedgerUseCase) DefaultInterestRate(ctx context.Context) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.params.DefaultInterestRate(ctx)
}
