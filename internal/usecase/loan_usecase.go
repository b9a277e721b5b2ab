package usecase

import (
	"context"

	"github.com/iho/loanledger/internal/domain"
)

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	Lender        string
	Amount        int64
	InterestRate  int64
	DurationDays  int64
	SuppliedValue int64
}

// CreateLoan allocates a new Active loan. The borrower funds the
// principal atomically with creation: SuppliedValue must equal Amount.
func (uc *LedgerUseCase) CreateLoan(ctx context.Context, borrower string, input CreateLoanInput) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	now := uc.now()
	loan := &domain.Loan{
		Borrower:     borrower,
		Lender:       input.Lender,
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		DurationDays: input.DurationDays,
		StartedAt:    now,
		State:        domain.LoanStateActive,
	}
	if err := loan.Validate(); err != nil {
		return nil, err
	}
	if input.SuppliedValue != input.Amount {
		return nil, domain.ErrValueMismatch
	}

	limit, set, err := uc.params.BorrowerLimit(ctx, borrower)
	if err != nil {
		return nil, err
	}
	if set && input.Amount > limit {
		return nil, domain.ErrLimitExceeded
	}

	if uc.cfg.EnforceLenderGating {
		authorized, err := uc.params.AuthorizedLender(ctx, input.Lender)
		if err != nil {
			return nil, err
		}
		if !authorized {
			return nil, domain.ErrLenderNotAuthorized
		}
	}

	id, err := uc.loans.Insert(ctx, loan)
	if err != nil {
		return nil, err
	}
	loan.ID = id

	if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(id), domain.EventTypeLoanCreated, map[string]any{
		"loan_id":   id,
		"borrower":  borrower,
		"lender":    input.Lender,
		"amount":    input.Amount,
		"timestamp": now.Unix(),
	}); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
	}

	return loan.Clone(), nil
}

// MakePartialPayment applies a payment to the loan. Any payment that
// would push repaidAmount past the total due is rejected outright,
// not capped. An exact-total payment transitions the loan to Repaid.
func (uc *LedgerUseCase) MakePartialPayment(ctx context.Context, caller string, loanID uint64, value int64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	if value <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if caller != loan.Borrower {
		return nil, domain.ErrNotBorrower
	}
	if loan.State != domain.LoanStateActive {
		return nil, domain.ErrInvalidState
	}

	now := uc.now()
	due := domain.Accrue(loan, now)
	if loan.RepaidAmount+value > due.Total {
		return nil, domain.ErrOverPayment
	}

	penaltyPortion := due.Penalty - loan.PaidPenalties
	if penaltyPortion > value {
		penaltyPortion = value
	}
	if penaltyPortion < 0 {
		penaltyPortion = 0
	}

	loan.RepaidAmount += value
	loan.PaidPenalties += penaltyPortion

	repaid := loan.RepaidAmount == due.Total
	if repaid {
		loan.State = domain.LoanStateRepaid
		settled := now
		loan.SettledAt = &settled
	}

	if err := uc.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	if penaltyPortion > 0 {
		if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypePenaltyApplied, map[string]any{
			"loan_id": loanID,
			"amount":  penaltyPortion,
		}); err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.PenaltiesApplied.Inc()
		}
	}

	if repaid {
		if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypeLoanRepaid, map[string]any{
			"loan_id":   loanID,
			"amount":    loan.RepaidAmount,
			"timestamp": now.Unix(),
		}); err != nil {
			return nil, err
		}
	} else {
		if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypePartialPayment, map[string]any{
			"loan_id": loanID,
			"amount":  value,
		}); err != nil {
			return nil, err
		}
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsReceived.Inc()
		if repaid {
			uc.metrics.LoansRepaid.Inc()
		}
	}

	return loan.Clone(), nil
}

// ExtendLoanDuration adds extraDays to an Active loan's duration.
// Accrual picks up the new duration on the next evaluation.
func (uc *LedgerUseCase) ExtendLoanDuration(ctx context.Context, caller string, loanID uint64, extraDays int64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	if extraDays <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if caller != loan.Borrower {
		return nil, domain.ErrNotBorrower
	}
	if loan.State != domain.LoanStateActive {
		return nil, domain.ErrInvalidState
	}

	oldDuration := loan.DurationDays
	loan.DurationDays += extraDays

	if err := uc.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypeLoanExtended, map[string]any{
		"loan_id":      loanID,
		"old_duration": oldDuration,
		"new_duration": loan.DurationDays,
	}); err != nil {
		return nil, err
	}

	return loan.Clone(), nil
}

// RenegotiateInterestRate replaces an Active loan's rate.
func (uc *LedgerUseCase) RenegotiateInterestRate(ctx context.Context, caller string, loanID uint64, newRate int64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	if newRate < 0 {
		return nil, domain.ErrInvalidAmount
	}

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if caller != loan.Borrower {
		return nil, domain.ErrNotBorrower
	}
	if loan.State != domain.LoanStateActive {
		return nil, domain.ErrInvalidState
	}

	oldRate := loan.InterestRate
	loan.InterestRate = newRate

	if err := uc.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypeInterestRateChanged, map[string]any{
		"loan_id":  loanID,
		"old_rate": oldRate,
		"new_rate": newRate,
	}); err != nil {
		return nil, err
	}

	return loan.Clone(), nil
}

// CancelLoan moves an Active loan to Cancelled and credits the
// principal back to the borrower's pending-withdrawal balance. The
// refund is pull-payment: no value leaves the ledger here.
func (uc *LedgerUseCase) CancelLoan(ctx context.Context, caller string, loanID uint64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if caller != loan.Borrower {
		return nil, domain.ErrNotBorrower
	}
	if loan.State != domain.LoanStateActive {
		return nil, domain.ErrInvalidState
	}

	now := uc.now()
	loan.State = domain.LoanStateCancelled
	loan.SettledAt = &now

	if err := uc.loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	if err := uc.balances.Credit(ctx, loan.Borrower, loan.Amount); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCancelled.Inc()
		uc.metrics.PendingWithdrawals.Add(float64(loan.Amount))
	}

	return loan.Clone(), nil
}

// MarkDefaulted transitions a past-due Active loan to Defaulted.
// Callable by the owner or the loan's lender; there is no scheduler,
// default is always an explicit call.
func (uc *LedgerUseCase) MarkDefaulted(ctx context.Context, caller string, loanID uint64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}

	owner, err := uc.params.Owner(ctx)
	if err != nil {
		return nil, err
	}
	if caller != owner && caller != loan.Lender {
		return nil, domain.ErrUnauthorized
	}
	if loan.State != domain.LoanStateActive {
		return nil, domain.ErrInvalidState
	}

	now := uc.now()
	if !loan.PastDue(now) {
		return nil, domain.ErrNotPastDue
	}

	loan.State = domain.LoanStateDefaulted
	loan.SettledAt = &now

	if err := uc.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, domain.AggregateTypeLoan, formatID(loanID), domain.EventTypeLoanDefaulted, map[string]any{
		"loan_id":  loanID,
		"borrower": loan.Borrower,
		"amount":   loan.Amount,
	}); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansDefaulted.Inc()
	}

	return loan.Clone(), nil
}

// WithdrawBalance drains the caller's entire pending-withdrawal
// balance and returns the drained amount.
func (uc *LedgerUseCase) WithdrawBalance(ctx context.Context, caller string) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.requireNotPaused(ctx); err != nil {
		return 0, err
	}

	pending, err := uc.balances.Pending(ctx, caller)
	if err != nil {
		return 0, err
	}
	if pending == 0 {
		return 0, domain.ErrNothingToWithdraw
	}

	amount, err := uc.balances.Drain(ctx, caller)
	if err != nil {
		return 0, err
	}
	if uc.metrics != nil {
		uc.metrics.PendingWithdrawals.Sub(float64(amount))
	}
	return amount, nil
}

// GetLoan returns a loan by id.
func (uc *LedgerUseCase) GetLoan(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return loan.Clone(), nil
}

// GetLoanState returns only the lifecycle state.
func (uc *LedgerUseCase) GetLoanState(ctx context.Context, loanID uint64) (domain.LoanState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return 0, err
	}
	return loan.State, nil
}

// CalculateDetailedAmounts evaluates the due breakdown as of now.
// Pure read; for settled loans accrual is frozen at settlement.
func (uc *LedgerUseCase) CalculateDetailedAmounts(ctx context.Context, loanID uint64) (domain.Breakdown, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return domain.Breakdown{}, err
	}
	return domain.Accrue(loan, uc.now()), nil
}

// CalculateTotalDue returns only the total due as of now.
func (uc *LedgerUseCase) CalculateTotalDue(ctx context.Context, loanID uint64) (int64, error) {
	bd, err := uc.CalculateDetailedAmounts(ctx, loanID)
	if err != nil {
		return 0, err
	}
	return bd.Total, nil
}

// GetRemainingAmount returns total due minus what has been repaid.
func (uc *LedgerUseCase) GetRemainingAmount(ctx context.Context, loanID uint64) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	loan, err := uc.loans.Get(ctx, loanID)
	if err != nil {
		return 0, err
	}

	bd := domain.Accrue(loan, uc.now())
	remaining := bd.Total - loan.RepaidAmount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GetPendingWithdrawal returns an identity's pull-payment balance.
func (uc *LedgerUseCase) GetPendingWithdrawal(ctx context.Context, id string) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.balances.Pending(ctx, id)
}

// GetTotalLoans returns the count of loans ever created.
func (uc *LedgerUseCase) GetTotalLoans(ctx context.Context) (uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.loans.Count(ctx)
}
