package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/iho/loanledger/internal/domain"
)

// StreamPublisher pushes ledger events onto a Redis stream so external
// consumers can tail the event feed without polling the HTTP API.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a StreamPublisher writing to the given stream.
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// Publish appends the event to the stream.
func (p *StreamPublisher) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":       event.ID,
			"seq":            strconv.FormatUint(event.Seq, 10),
			"aggregate_id":   event.AggregateID,
			"aggregate_type": event.AggregateType,
			"event_type":     event.EventType,
			"payload":        string(payload),
			"created_at":     event.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}).Err()
}
