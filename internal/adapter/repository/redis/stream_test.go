package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/loanledger/internal/domain"
)

func TestStreamPublisher_Publish(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	pub := NewStreamPublisher(client, "test:events")
	ctx := context.Background()

	event := &domain.Event{
		ID:            "evt-1",
		Seq:           7,
		AggregateID:   "3",
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanCreated,
		Payload:       map[string]any{"amount": int64(1_000_000)},
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	entries, err := client.XRange(ctx, "test:events", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(entries))
	}

	values := entries[0].Values
	if values["event_id"] != "evt-1" {
		t.Fatalf("event_id = %v", values["event_id"])
	}
	if values["seq"] != "7" {
		t.Fatalf("seq = %v", values["seq"])
	}
	if values["event_type"] != domain.EventTypeLoanCreated {
		t.Fatalf("event_type = %v", values["event_type"])
	}
}
