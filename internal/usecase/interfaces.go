package usecase

import (
	"context"
	"time"

	"github.com/iho/loanledger/internal/domain"
)

// LoanRepository defines data access for loan records. Insert assigns
// the next sequential id and returns it.
type LoanRepository interface {
	Insert(ctx context.Context, loan *domain.Loan) (uint64, error)
	Get(ctx context.Context, id uint64) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Count(ctx context.Context) (uint64, error)
}

// ProposalRepository defines data access for governance proposals.
type ProposalRepository interface {
	Insert(ctx context.Context, proposal *domain.Proposal) (uint64, error)
	Get(ctx context.Context, id uint64) (*domain.Proposal, error)
	Update(ctx context.Context, proposal *domain.Proposal) error
	Count(ctx context.Context) (uint64, error)
}

// StakeRepository defines data access for staking balances. Add applies
// a signed delta to both the identity's balance and the pool total, so
// sum(balances) == total holds after every call.
type StakeRepository interface {
	Balance(ctx context.Context, id string) (int64, error)
	Total(ctx context.Context) (int64, error)
	Add(ctx context.Context, id string, delta int64) error
}

// BalanceRepository defines data access for pending-withdrawal
// balances (the pull-payment side of the ledger).
type BalanceRepository interface {
	Pending(ctx context.Context, id string) (int64, error)
	Credit(ctx context.Context, id string, amount int64) error
	Drain(ctx context.Context, id string) (int64, error)
}

// ParamsRepository defines data access for system-wide parameters.
type ParamsRepository interface {
	Owner(ctx context.Context) (string, error)
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
	DefaultInterestRate(ctx context.Context) (int64, error)
	SetDefaultInterestRate(ctx context.Context, rate int64) error
	AuthorizedLender(ctx context.Context, id string) (bool, error)
	SetAuthorizedLender(ctx context.Context, id string, authorized bool) error
	BorrowerLimit(ctx context.Context, id string) (limit int64, set bool, err error)
	SetBorrowerLimit(ctx context.Context, id string, limit int64) error
}

// OutboxRepository defines data access for the append-only event log.
type OutboxRepository interface {
	Append(ctx context.Context, event *domain.Event) error
	ListAfter(ctx context.Context, afterSeq uint64, limit int) ([]*domain.Event, error)
	GetUnpublished(ctx context.Context, limit int) ([]*domain.Event, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// IDGenerator generates unique IDs for event records.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the ledger's notion of now.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
