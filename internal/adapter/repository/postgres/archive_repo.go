package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/loanledger/internal/domain"
)

// ArchiveRepository persists ledger events into PostgreSQL for durable
// history. The in-memory store stays authoritative; the archive is a
// write-behind sink fed by the event publisher.
type ArchiveRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(pool *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Archive writes an event row, ignoring duplicates so redelivery after
// a publisher restart is safe.
func (r *ArchiveRepository) Archive(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO ledger_events (id, seq, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			event.ID,
			int64(event.Seq),
			event.AggregateID,
			event.AggregateType,
			event.EventType,
			payload,
			event.CreatedAt,
		)
		return err
	})
}

// ListByAggregate returns archived events for one aggregate, oldest first.
func (r *ArchiveRepository) ListByAggregate(ctx context.Context, aggregateType, aggregateID string, limit int) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, seq, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM ledger_events
		WHERE aggregate_type = $1 AND aggregate_id = $2
		ORDER BY seq ASC
		LIMIT $3`,
		aggregateType, aggregateID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var (
			e       domain.Event
			seq     int64
			payload []byte
		)
		if err := rows.Scan(&e.ID, &seq, &e.AggregateID, &e.AggregateType, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Seq = uint64(seq)
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event payload: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// Count returns the number of archived events.
func (r *ArchiveRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM ledger_events`).Scan(&count)
	return count, err
}
