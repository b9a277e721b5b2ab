package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
)

// Config holds the engine's tunable behavior.
type Config struct {
	// VotingPeriod is the governance finalization window.
	VotingPeriod time.Duration
	// EnforceLenderGating makes the authorizedLenders flags binding on
	// loan creation. Off by default: the flags are advisory metadata.
	EnforceLenderGating bool
}

// LedgerUseCase is the single aggregate engine over the shared store:
// access control, staking, loans, interest accrual and governance all
// execute through it. Every call runs to completion under one mutex;
// state deltas and event emission land atomically or not at all.
type LedgerUseCase struct {
	mu sync.Mutex

	loans     LoanRepository
	proposals ProposalRepository
	stakes    StakeRepository
	balances  BalanceRepository
	params    ParamsRepository
	outbox    OutboxRepository
	idGen     IDGenerator
	clock     Clock
	metrics   *metrics.Metrics
	cfg       Config
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	loans LoanRepository,
	proposals ProposalRepository,
	stakes StakeRepository,
	balances BalanceRepository,
	params ParamsRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
	cfg Config,
) *LedgerUseCase {
	if cfg.VotingPeriod == 0 {
		cfg.VotingPeriod = DefaultVotingPeriod
	}

	return &LedgerUseCase{
		loans:     loans,
		proposals: proposals,
		stakes:    stakes,
		balances:  balances,
		params:    params,
		outbox:    outbox,
		idGen:     idGen,
		clock:     clock,
		metrics:   m,
		cfg:       cfg,
	}
}

// now returns the engine's current time in UTC.
func (uc *LedgerUseCase) now() time.Time {
	if uc.clock != nil {
		return uc.clock.Now().UTC()
	}
	return time.Now().UTC()
}

// requireNotPaused rejects mutating calls while the system is paused.
func (uc *LedgerUseCase) requireNotPaused(ctx context.Context) error {
	paused, err := uc.params.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return domain.ErrSystemPaused
	}
	return nil
}

// requireOwner rejects callers other than the configured owner.
func (uc *LedgerUseCase) requireOwner(ctx context.Context, caller string) error {
	owner, err := uc.params.Owner(ctx)
	if err != nil {
		return err
	}
	if caller != owner {
		return domain.ErrUnauthorized
	}
	return nil
}

// emit appends one event record to the outbox within the current
// critical section.
func (uc *LedgerUseCase) emit(ctx context.Context, aggregateType, aggregateID, eventType string, payload map[string]any) error {
	return uc.outbox.Append(ctx, &domain.Event{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     uc.now(),
	})
}

// ListEvents reads the event log after a sequence cursor.
func (uc *LedgerUseCase) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]*domain.Event, error) {
	if limit <= 0 || limit > DefaultEventListLimit {
		limit = DefaultEventListLimit
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.outbox.ListAfter(ctx, afterSeq, limit)
}

// Stats summarizes the ledger for monitoring.
type Stats struct {
	TotalLoans          uint64
	TotalProposals      uint64
	TotalStaked         int64
	DefaultInterestRate int64
	Paused              bool
}

// GetStats returns ledger-wide totals.
func (uc *LedgerUseCase) GetStats(ctx context.Context) (Stats, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	loans, err := uc.loans.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	proposals, err := uc.proposals.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	staked, err := uc.stakes.Total(ctx)
	if err != nil {
		return Stats{}, err
	}
	rate, err := uc.params.DefaultInterestRate(ctx)
	if err != nil {
		return Stats{}, err
	}
	paused, err := uc.params.Paused(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalLoans:          loans,
		TotalProposals:      proposals,
		TotalStaked:         staked,
		DefaultInterestRate: rate,
		Paused:              paused,
	}, nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
