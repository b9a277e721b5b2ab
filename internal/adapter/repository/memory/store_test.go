package memory

import (
	"context"
	"testing"
	"time"

	"github.com/iho/loanledger/internal/domain"
)

func TestLoanRepository_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	for i := 0; i < 3; i++ {
		loan := &domain.Loan{
			Borrower:     "alice",
			Lender:       "bank",
			Amount:       1_000,
			InterestRate: 10,
			DurationDays: 30,
			StartedAt:    time.Now(),
		}
		id, err := s.Loans().Insert(ctx, loan)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id != uint64(i) {
			t.Fatalf("id = %d, want %d", id, i)
		}
	}

	count, err := s.Loans().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestLoanRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	loan := &domain.Loan{Borrower: "alice", Lender: "bank", Amount: 500, InterestRate: 10, DurationDays: 30}
	id, _ := s.Loans().Insert(ctx, loan)

	got, err := s.Loans().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.RepaidAmount = 999

	again, _ := s.Loans().Get(ctx, id)
	if again.RepaidAmount != 0 {
		t.Fatal("mutation of returned loan leaked into store")
	}
}

func TestLoanRepository_GetNotFound(t *testing.T) {
	s := NewStore("owner", 10)
	if _, err := s.Loans().Get(context.Background(), 42); err != domain.ErrLoanNotFound {
		t.Fatalf("err = %v, want ErrLoanNotFound", err)
	}
}

func TestStakeRepository_TotalTracksSum(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	if err := s.Stakes().Add(ctx, "alice", 1_000); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Stakes().Add(ctx, "bob", 2_000); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Stakes().Add(ctx, "alice", -400); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	total, _ := s.Stakes().Total(ctx)
	if total != 2_600 {
		t.Fatalf("total = %d, want 2600", total)
	}
	balance, _ := s.Stakes().Balance(ctx, "alice")
	if balance != 600 {
		t.Fatalf("alice balance = %d, want 600", balance)
	}
}

func TestStakeRepository_RejectsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	s.Stakes().Add(ctx, "alice", 100)
	if err := s.Stakes().Add(ctx, "alice", -200); err != domain.ErrInsufficientStake {
		t.Fatalf("err = %v, want ErrInsufficientStake", err)
	}
	total, _ := s.Stakes().Total(ctx)
	if total != 100 {
		t.Fatalf("total = %d after failed withdraw, want 100", total)
	}
}

func TestBalanceRepository_CreditAndDrain(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	s.Balances().Credit(ctx, "alice", 500)
	s.Balances().Credit(ctx, "alice", 250)

	amount, err := s.Balances().Drain(ctx, "alice")
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if amount != 750 {
		t.Fatalf("drained = %d, want 750", amount)
	}

	pending, _ := s.Balances().Pending(ctx, "alice")
	if pending != 0 {
		t.Fatalf("pending after drain = %d, want 0", pending)
	}
}

func TestParamsRepository_Defaults(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	owner, _ := s.Params().Owner(ctx)
	if owner != "owner" {
		t.Fatalf("owner = %q", owner)
	}
	rate, _ := s.Params().DefaultInterestRate(ctx)
	if rate != 10 {
		t.Fatalf("default rate = %d, want 10", rate)
	}
	paused, _ := s.Params().Paused(ctx)
	if paused {
		t.Fatal("store starts paused")
	}

	_, set, _ := s.Params().BorrowerLimit(ctx, "alice")
	if set {
		t.Fatal("unset borrower limit reported as set")
	}
	s.Params().SetBorrowerLimit(ctx, "alice", 0)
	limit, set, _ := s.Params().BorrowerLimit(ctx, "alice")
	if !set || limit != 0 {
		t.Fatalf("limit = %d set = %v, want 0 true", limit, set)
	}
}

func TestOutboxRepository_SeqAndListAfter(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	for i := 0; i < 5; i++ {
		e := &domain.Event{
			ID:            "evt-" + string(rune('a'+i)),
			AggregateID:   "0",
			AggregateType: domain.AggregateTypeLoan,
			EventType:     domain.EventTypeLoanCreated,
			Payload:       map[string]any{"i": i},
			CreatedAt:     time.Now(),
		}
		if err := s.Outbox().Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
		if e.Seq != uint64(i+1) {
			t.Fatalf("seq = %d, want %d", e.Seq, i+1)
		}
	}

	events, err := s.Outbox().ListAfter(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Seq != 3 || events[1].Seq != 4 {
		t.Fatalf("seqs = %d,%d, want 3,4", events[0].Seq, events[1].Seq)
	}
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	ctx := context.Background()
	s := NewStore("owner", 10)

	e := &domain.Event{ID: "evt-1", EventType: domain.EventTypeStakeAdded, Payload: map[string]any{}}
	s.Outbox().Append(ctx, e)

	unpublished, _ := s.Outbox().GetUnpublished(ctx, 10)
	if len(unpublished) != 1 {
		t.Fatalf("unpublished = %d, want 1", len(unpublished))
	}

	now := time.Now()
	if err := s.Outbox().MarkPublished(ctx, "evt-1", now); err != nil {
		t.Fatalf("mark: %v", err)
	}

	unpublished, _ = s.Outbox().GetUnpublished(ctx, 10)
	if len(unpublished) != 0 {
		t.Fatalf("unpublished after mark = %d, want 0", len(unpublished))
	}
}
