package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/iho/loanledger/internal/adapter/repository/memory"
	"github.com/iho/loanledger/internal/infrastructure/clock"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
	"github.com/iho/loanledger/internal/usecase"
)

const owner = "owner"

// Shared across tests: promauto registers on the default registry and
// panics on duplicates.
var testMetrics = metrics.New()

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, overrides ...func(*usecase.Config)) (*usecase.LedgerUseCase, *clock.Fake, *memory.Store) {
	t.Helper()

	cfg := usecase.Config{}
	for _, o := range overrides {
		o(&cfg)
	}

	store := memory.NewStore(owner, 10)
	fake := clock.NewFake(epoch)
	uc := usecase.NewLedgerUseCase(
		store.Loans(),
		store.Proposals(),
		store.Stakes(),
		store.Balances(),
		store.Params(),
		store.Outbox(),
		memory.NewULIDGenerator(),
		fake,
		testMetrics,
		cfg,
	)
	return uc, fake, store
}

// lastEventOfType scans the event log for the newest event of the
// given type, failing the test when none exists.
func lastEventOfType(t *testing.T, store *memory.Store, eventType string) map[string]any {
	t.Helper()

	events, err := store.Outbox().ListAfter(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EventType == eventType {
			return events[i].Payload
		}
	}
	t.Fatalf("no event of type %s emitted", eventType)
	return nil
}

func countEventsOfType(t *testing.T, store *memory.Store, eventType string) int {
	t.Helper()

	events, err := store.Outbox().ListAfter(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	n := 0
	for _, e := range events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}
