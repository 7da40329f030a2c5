package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sequencer issues per-day order sequences with a single atomic upsert.
// The INSERT ... ON CONFLICT ... RETURNING round trip is the compare-and-swap
// against the backing store; there is no read-then-write window.
type Sequencer struct {
	pool *pgxpool.Pool
}

// NewSequencer creates a Postgres-backed order sequencer.
func NewSequencer(pool *pgxpool.Pool) *Sequencer {
	return &Sequencer{pool: pool}
}

// NextSequence increments and returns the counter for the given day key.
func (s *Sequencer) NextSequence(ctx context.Context, day string) (int64, error) {
	var seq int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO order_sequences (day, seq) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_sequences.seq + 1
		RETURNING seq`,
		day,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to advance order sequence for %s: %w", day, err)
	}
	return seq, nil
}
