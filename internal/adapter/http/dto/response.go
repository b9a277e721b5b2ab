package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID            uint64          `json:"id"`
	Borrower      string          `json:"borrower"`
	Lender        string          `json:"lender"`
	Amount        decimal.Decimal `json:"amount"`
	InterestRate  int64           `json:"interest_rate"`
	DurationDays  int64           `json:"duration_days"`
	StartedAt     time.Time       `json:"started_at"`
	EndsAt        time.Time       `json:"ends_at"`
	RepaidAmount  decimal.Decimal `json:"repaid_amount"`
	PaidPenalties decimal.Decimal `json:"paid_penalties"`
	State         string          `json:"state"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:            l.ID,
		Borrower:      l.Borrower,
		Lender:        l.Lender,
		Amount:        decimal.NewFromInt(l.Amount),
		InterestRate:  l.InterestRate,
		DurationDays:  l.DurationDays,
		StartedAt:     l.StartedAt,
		EndsAt:        l.EndsAt(),
		RepaidAmount:  decimal.NewFromInt(l.RepaidAmount),
		PaidPenalties: decimal.NewFromInt(l.PaidPenalties),
		State:         l.State.String(),
		SettledAt:     l.SettledAt,
	}
}

// BreakdownResponse represents the accrued amounts of a loan.
type BreakdownResponse struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Penalty   decimal.Decimal `json:"penalty"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

// BreakdownFromDomain converts an accrual breakdown to a response.
func BreakdownFromDomain(b domain.Breakdown, remaining int64) *BreakdownResponse {
	return &BreakdownResponse{
		Principal: decimal.NewFromInt(b.Principal),
		Interest:  decimal.NewFromInt(b.Interest),
		Penalty:   decimal.NewFromInt(b.Penalty),
		Total:     decimal.NewFromInt(b.Total),
		Remaining: decimal.NewFromInt(remaining),
	}
}

// ProposalResponse represents a governance proposal in API responses.
type ProposalResponse struct {
	ID           uint64          `json:"id"`
	ProposedRate int64           `json:"proposed_rate"`
	VotesFor     decimal.Decimal `json:"votes_for"`
	VotesAgainst decimal.Decimal `json:"votes_against"`
	CreatedAt    time.Time       `json:"created_at"`
	Finalized    bool            `json:"finalized"`
	Passed       bool            `json:"passed"`
}

// ProposalFromDomain converts a domain proposal to a response.
func ProposalFromDomain(p *domain.Proposal) *ProposalResponse {
	return &ProposalResponse{
		ID:           p.ID,
		ProposedRate: p.ProposedRate,
		VotesFor:     decimal.NewFromInt(p.VotesFor),
		VotesAgainst: decimal.NewFromInt(p.VotesAgainst),
		CreatedAt:    p.CreatedAt,
		Finalized:    p.Finalized,
		Passed:       p.Passed(),
	}
}

// EventResponse represents a ledger event in API responses.
type EventResponse struct {
	ID            string         `json:"id"`
	Seq           uint64         `json:"seq"`
	AggregateID   string         `json:"aggregate_id"`
	AggregateType string         `json:"aggregate_type"`
	EventType     string         `json:"event_type"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// EventFromDomain converts a domain event to a response.
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:            e.ID,
		Seq:           e.Seq,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		EventType:     e.EventType,
		Payload:       e.Payload,
		CreatedAt:     e.CreatedAt,
	}
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// ListEventsResponse wraps an event feed page.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// StakeResponse represents a staking balance.
type StakeResponse struct {
	Staker  string          `json:"staker"`
	Balance decimal.Decimal `json:"balance"`
	Total   decimal.Decimal `json:"total_staked"`
}

// PoolResponse represents the staking pool as a whole.
type PoolResponse struct {
	TotalStaked decimal.Decimal `json:"total_staked"`
}

// VoteStatusResponse reports whether an identity voted on a proposal.
type VoteStatusResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Voted      bool   `json:"voted"`
}

// WithdrawalResponse represents a drained pending balance.
type WithdrawalResponse struct {
	Caller string          `json:"caller"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceResponse represents a pending withdrawal balance.
type BalanceResponse struct {
	ID      string          `json:"id"`
	Pending decimal.Decimal `json:"pending"`
}

// PauseResponse reports the pause flag after a toggle.
type PauseResponse struct {
	Paused bool `json:"paused"`
}

// StatsResponse summarizes the ledger.
type StatsResponse struct {
	TotalLoans          uint64          `json:"total_loans"`
	TotalProposals      uint64          `json:"total_proposals"`
	TotalStaked         decimal.Decimal `json:"total_staked"`
	DefaultInterestRate int64           `json:"default_interest_rate"`
	Paused              bool            `json:"paused"`
}

// StatsFromUseCase converts engine stats to a response.
func StatsFromUseCase(s usecase.Stats) *StatsResponse {
	return &StatsResponse{
		TotalLoans:          s.TotalLoans,
		TotalProposals:      s.TotalProposals,
		TotalStaked:         decimal.NewFromInt(s.TotalStaked),
		DefaultInterestRate: s.DefaultInterestRate,
		Paused:              s.Paused,
	}
}

// TokenResponse carries a minted bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}
