package domain

import "time"

// Event types
const (
	EventTypeContractPaused      = "system.paused"
	EventTypeStakeAdded          = "stake.added"
	EventTypeStakeWithdrawn      = "stake.withdrawn"
	EventTypeLoanCreated         = "loan.created"
	EventTypePartialPayment      = "loan.partial_payment"
	EventTypeLoanRepaid          = "loan.repaid"
	EventTypePenaltyApplied      = "loan.penalty_applied"
	EventTypeLoanExtended        = "loan.extended"
	EventTypeInterestRateChanged = "loan.rate_changed"
	EventTypeLoanDefaulted       = "loan.defaulted"
	EventTypeProposalCreated     = "proposal.created"
	EventTypeProposalCompleted   = "proposal.completed"
)

// Aggregate types
const (
	AggregateTypeSystem   = "system"
	AggregateTypeStake    = "stake"
	AggregateTypeLoan     = "loan"
	AggregateTypeProposal = "proposal"
)

// Event is one appended record in the ledger's event log. Seq is
// assigned by the log and is strictly increasing; ID is a ULID.
type Event struct {
	ID            string
	Seq           uint64
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	Published     bool
	PublishedAt   *time.Time
}

// LoanCreatedEvent payload
type LoanCreatedEvent struct {
	LoanID    uint64 `json:"loan_id"`
	Borrower  string `json:"borrower"`
	Lender    string `json:"lender"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// LoanRepaidEvent payload
type LoanRepaidEvent struct {
	LoanID    uint64 `json:"loan_id"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// LoanDefaultedEvent payload
type LoanDefaultedEvent struct {
	LoanID   uint64 `json:"loan_id"`
	Borrower string `json:"borrower"`
	Amount   int64  `json:"amount"`
}

// PenaltyAppliedEvent payload
type PenaltyAppliedEvent struct {
	LoanID uint64 `json:"loan_id"`
	Amount int64  `json:"amount"`
}
