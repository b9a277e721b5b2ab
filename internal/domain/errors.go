package domain

import "errors"

var (
	// Access control errors
	ErrUnauthorized = errors.New("caller is not authorized for this action")
	ErrSystemPaused = errors.New("system is paused")

	// Staking errors
	ErrInsufficientStake = errors.New("withdrawal exceeds staked balance")
	ErrNotStaker         = errors.New("caller has no stake")

	// Loan errors
	ErrLoanNotFound        = errors.New("loan not found")
	ErrNotBorrower         = errors.New("only the borrower can perform this action")
	ErrInvalidState        = errors.New("operation not valid in the current state")
	ErrOverPayment         = errors.New("payment exceeds total amount due")
	ErrLimitExceeded       = errors.New("amount exceeds borrower limit")
	ErrLenderNotAuthorized = errors.New("lender is not authorized")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrValueMismatch       = errors.New("supplied value must equal the loan amount")
	ErrNotPastDue          = errors.New("loan is not past due")
	ErrNothingToWithdraw   = errors.New("no pending balance to withdraw")

	// Governance errors
	ErrProposalNotFound = errors.New("proposal not found")
	ErrAlreadyVoted     = errors.New("caller has already voted on this proposal")
	ErrAlreadyFinalized = errors.New("proposal is already finalized")
	ErrTooEarly         = errors.New("voting window has not elapsed")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
