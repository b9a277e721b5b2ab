package domain

import (
	"time"
)

// SecondsPerDay is the fixed day length used for all accrual math.
const SecondsPerDay = 86400

// LoanState is the lifecycle state of a loan.
type LoanState int

const (
	LoanStateActive LoanState = iota
	LoanStateRepaid
	LoanStateDefaulted
	LoanStateCancelled
)

// String returns the state name.
func (s LoanState) String() string {
	switch s {
	case LoanStateActive:
		return "active"
	case LoanStateRepaid:
		return "repaid"
	case LoanStateDefaulted:
		return "defaulted"
	case LoanStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can leave the state.
func (s LoanState) Terminal() bool {
	return s != LoanStateActive
}

// Loan represents a single loan record. Identity fields are fixed at
// creation; lifecycle fields mutate under the ledger's serialization.
type Loan struct {
	ID            uint64
	Borrower      string
	Lender        string
	Amount        int64
	InterestRate  int64 // percent
	DurationDays  int64
	StartedAt     time.Time
	RepaidAmount  int64
	PaidPenalties int64
	State         LoanState
	SettledAt     *time.Time // set when the loan leaves Active
}

// Validate checks the creation-time fields.
func (l *Loan) Validate() error {
	if l.Amount <= 0 {
		return ErrInvalidAmount
	}
	if l.InterestRate < 0 {
		return ErrInvalidAmount
	}
	if l.DurationDays <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// EndsAt returns the nominal due time, start plus duration days.
func (l *Loan) EndsAt() time.Time {
	return l.StartedAt.Add(time.Duration(l.DurationDays) * SecondsPerDay * time.Second)
}

// PastDue reports whether now is beyond the loan's nominal duration.
func (l *Loan) PastDue(now time.Time) bool {
	return now.After(l.EndsAt())
}

// AccrualTime returns the instant accrual is evaluated at: now for
// Active loans, the terminal transition time otherwise. Penalties stop
// growing once a loan is settled.
func (l *Loan) AccrualTime(now time.Time) time.Time {
	if l.SettledAt != nil && l.SettledAt.Before(now) {
		return *l.SettledAt
	}
	return now
}

// Clone returns a deep copy.
func (l *Loan) Clone() *Loan {
	c := *l
	if l.SettledAt != nil {
		t := *l.SettledAt
		c.SettledAt = &t
	}
	return &c
}
