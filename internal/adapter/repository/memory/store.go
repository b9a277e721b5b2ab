package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/loanledger/internal/domain"
)

// Store is the mapping-based ledger state: balances mutate in place,
// loans, proposals and events grow append-only by sequential id. One
// Store instance backs all repository interfaces so the stake-sum and
// id-monotonicity invariants hold by construction.
type Store struct {
	mu sync.RWMutex

	owner             string
	paused            bool
	defaultRate       int64
	authorizedLenders map[string]bool
	borrowerLimits    map[string]int64

	stakes      map[string]int64
	totalStaked int64

	pending map[string]int64

	loans     []*domain.Loan
	proposals []*domain.Proposal

	events  []*domain.Event
	nextSeq uint64
}

// NewStore creates a Store with the given owner and initial default
// interest rate.
func NewStore(owner string, defaultRate int64) *Store {
	return &Store{
		owner:             owner,
		defaultRate:       defaultRate,
		authorizedLenders: make(map[string]bool),
		borrowerLimits:    make(map[string]int64),
		stakes:            make(map[string]int64),
		pending:           make(map[string]int64),
	}
}

// --- usecase.LoanRepository ---

// Loans returns the loan repository view of the store.
func (s *Store) Loans() *LoanRepository { return &LoanRepository{s} }

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct{ s *Store }

// Insert appends the loan and assigns the next sequential id.
func (r *LoanRepository) Insert(_ context.Context, loan *domain.Loan) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	loan.ID = uint64(len(r.s.loans))
	r.s.loans = append(r.s.loans, loan.Clone())
	return loan.ID, nil
}

// Get returns a copy of the loan.
func (r *LoanRepository) Get(_ context.Context, id uint64) (*domain.Loan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if id >= uint64(len(r.s.loans)) {
		return nil, domain.ErrLoanNotFound
	}
	return r.s.loans[id].Clone(), nil
}

// Update overwrites the stored loan record.
func (r *LoanRepository) Update(_ context.Context, loan *domain.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if loan.ID >= uint64(len(r.s.loans)) {
		return domain.ErrLoanNotFound
	}
	r.s.loans[loan.ID] = loan.Clone()
	return nil
}

// Count returns the number of loans ever created.
func (r *LoanRepository) Count(_ context.Context) (uint64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return uint64(len(r.s.loans)), nil
}

// --- usecase.ProposalRepository ---

// Proposals returns the proposal repository view of the store.
func (s *Store) Proposals() *ProposalRepository { return &ProposalRepository{s} }

// ProposalRepository implements usecase.ProposalRepository.
type ProposalRepository struct{ s *Store }

// Insert appends the proposal and assigns the next sequential id.
func (r *ProposalRepository) Insert(_ context.Context, p *domain.Proposal) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = uint64(len(r.s.proposals))
	r.s.proposals = append(r.s.proposals, p.Clone())
	return p.ID, nil
}

// Get returns a copy of the proposal.
func (r *ProposalRepository) Get(_ context.Context, id uint64) (*domain.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if id >= uint64(len(r.s.proposals)) {
		return nil, domain.ErrProposalNotFound
	}
	return r.s.proposals[id].Clone(), nil
}

// Update overwrites the stored proposal record.
func (r *ProposalRepository) Update(_ context.Context, p *domain.Proposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID >= uint64(len(r.s.proposals)) {
		return domain.ErrProposalNotFound
	}
	r.s.proposals[p.ID] = p.Clone()
	return nil
}

// Count returns the number of proposals ever created.
func (r *ProposalRepository) Count(_ context.Context) (uint64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return uint64(len(r.s.proposals)), nil
}

// --- usecase.StakeRepository ---

// Stakes returns the stake repository view of the store.
func (s *Store) Stakes() *StakeRepository { return &StakeRepository{s} }

// StakeRepository implements usecase.StakeRepository.
type StakeRepository struct{ s *Store }

// Balance returns the identity's staked amount.
func (r *StakeRepository) Balance(_ context.Context, id string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.stakes[id], nil
}

// Total returns the pool total.
func (r *StakeRepository) Total(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.totalStaked, nil
}

// Add applies delta to both the identity's balance and the total.
func (r *StakeRepository) Add(_ context.Context, id string, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.stakes[id]+delta < 0 {
		return domain.ErrInsufficientStake
	}
	r.s.stakes[id] += delta
	r.s.totalStaked += delta
	return nil
}

// --- usecase.BalanceRepository ---

// Balances returns the pending-withdrawal repository view of the store.
func (s *Store) Balances() *BalanceRepository { return &BalanceRepository{s} }

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct{ s *Store }

// Pending returns the identity's pending-withdrawal balance.
func (r *BalanceRepository) Pending(_ context.Context, id string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.pending[id], nil
}

// Credit adds amount to the identity's pending-withdrawal balance.
func (r *BalanceRepository) Credit(_ context.Context, id string, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if amount < 0 {
		return domain.ErrInvalidAmount
	}
	r.s.pending[id] += amount
	return nil
}

// Drain zeroes the balance and returns the drained amount.
func (r *BalanceRepository) Drain(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	amount := r.s.pending[id]
	r.s.pending[id] = 0
	return amount, nil
}

// --- usecase.ParamsRepository ---

// Params returns the system-parameters repository view of the store.
func (s *Store) Params() *ParamsRepository { return &ParamsRepository{s} }

// ParamsRepository implements usecase.ParamsRepository.
type ParamsRepository struct{ s *Store }

// Owner returns the fixed owner identity.
func (r *ParamsRepository) Owner(_ context.Context) (string, error) {
	return r.s.owner, nil
}

// Paused returns the pause flag.
func (r *ParamsRepository) Paused(_ context.Context) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.paused, nil
}

// SetPaused sets the pause flag.
func (r *ParamsRepository) SetPaused(_ context.Context, paused bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.paused = paused
	return nil
}

// DefaultInterestRate returns the system default rate.
func (r *ParamsRepository) DefaultInterestRate(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.defaultRate, nil
}

// SetDefaultInterestRate sets the system default rate.
func (r *ParamsRepository) SetDefaultInterestRate(_ context.Context, rate int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.defaultRate = rate
	return nil
}

// AuthorizedLender returns a lender's authorization flag.
func (r *ParamsRepository) AuthorizedLender(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.authorizedLenders[id], nil
}

// SetAuthorizedLender sets a lender's authorization flag.
func (r *ParamsRepository) SetAuthorizedLender(_ context.Context, id string, authorized bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.authorizedLenders[id] = authorized
	return nil
}

// BorrowerLimit returns a borrower's cap and whether one is set.
func (r *ParamsRepository) BorrowerLimit(_ context.Context, id string) (int64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	limit, set := r.s.borrowerLimits[id]
	return limit, set, nil
}

// SetBorrowerLimit sets or overwrites a borrower's cap.
func (r *ParamsRepository) SetBorrowerLimit(_ context.Context, id string, limit int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.borrowerLimits[id] = limit
	return nil
}

// --- usecase.OutboxRepository ---

// Outbox returns the event log view of the store.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s} }

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct{ s *Store }

// Append assigns the next sequence number and appends the event.
func (r *OutboxRepository) Append(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextSeq++
	event.Seq = r.s.nextSeq
	r.s.events = append(r.s.events, cloneEvent(event))
	return nil
}

// ListAfter returns up to limit events with Seq > afterSeq.
func (r *OutboxRepository) ListAfter(_ context.Context, afterSeq uint64, limit int) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Event
	for _, e := range r.s.events {
		if e.Seq <= afterSeq {
			continue
		}
		out = append(out, cloneEvent(e))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetUnpublished returns up to limit events not yet published.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Event
	for _, e := range r.s.events {
		if e.Published {
			continue
		}
		out = append(out, cloneEvent(e))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkPublished flags an event record as delivered.
func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.events {
		if e.ID == id {
			e.Published = true
			t := publishedAt
			e.PublishedAt = &t
			return nil
		}
	}
	return nil
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		c.PublishedAt = &t
	}
	c.Payload = make(map[string]any, len(e.Payload))
	for k, v := range e.Payload {
		c.Payload[k] = v
	}
	return &c
}
