package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// Amounts cross the wire as decimal strings but the ledger only deals
// in whole base units, so every conversion checks integrality.
func baseUnits(d decimal.Decimal) (int64, error) {
	if d.IsNegative() || !d.IsInteger() {
		return 0, domain.ErrInvalidAmount
	}
	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, domain.ErrInvalidAmount
	}
	return bi.Int64(), nil
}

// StakeRequest represents a stake deposit or withdrawal.
type StakeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BaseUnits converts the amount to ledger base units.
func (r *StakeRequest) BaseUnits() (int64, error) {
	return baseUnits(r.Amount)
}

// CreateLoanRequest represents a request to open a loan.
type CreateLoanRequest struct {
	Lender        string          `json:"lender"`
	Amount        decimal.Decimal `json:"amount"`
	InterestRate  int64           `json:"interest_rate"`
	DurationDays  int64           `json:"duration_days"`
	SuppliedValue decimal.Decimal `json:"supplied_value"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() (usecase.CreateLoanInput, error) {
	amount, err := baseUnits(r.Amount)
	if err != nil {
		return usecase.CreateLoanInput{}, err
	}
	supplied, err := baseUnits(r.SuppliedValue)
	if err != nil {
		return usecase.CreateLoanInput{}, err
	}
	return usecase.CreateLoanInput{
		Lender:        r.Lender,
		Amount:        amount,
		InterestRate:  r.InterestRate,
		DurationDays:  r.DurationDays,
		SuppliedValue: supplied,
	}, nil
}

// PaymentRequest represents a loan payment.
type PaymentRequest struct {
	Value decimal.Decimal `json:"value"`
}

// BaseUnits converts the payment value to ledger base units.
func (r *PaymentRequest) BaseUnits() (int64, error) {
	return baseUnits(r.Value)
}

// ExtendLoanRequest represents a duration extension.
type ExtendLoanRequest struct {
	ExtraDays int64 `json:"extra_days"`
}

// RenegotiateRateRequest represents an interest rate renegotiation.
type RenegotiateRateRequest struct {
	NewRate int64 `json:"new_rate"`
}

// SetLenderRequest flips a lender's authorization flag.
type SetLenderRequest struct {
	Lender     string `json:"lender"`
	Authorized bool   `json:"authorized"`
}

// SetBorrowerLimitRequest caps a borrower's principal.
type SetBorrowerLimitRequest struct {
	Borrower string          `json:"borrower"`
	Limit    decimal.Decimal `json:"limit"`
}

// BaseUnits converts the limit to ledger base units.
func (r *SetBorrowerLimitRequest) BaseUnits() (int64, error) {
	return baseUnits(r.Limit)
}

// ProposeRateRequest opens a governance proposal.
type ProposeRateRequest struct {
	NewRate int64 `json:"new_rate"`
}

// VoteRequest casts a vote on a proposal.
type VoteRequest struct {
	Support bool `json:"support"`
}

// TokenRequest mints a development token for the given identity.
type TokenRequest struct {
	CallerID string `json:"caller_id"`
	Owner    bool   `json:"owner"`
}
