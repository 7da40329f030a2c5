// Package ordernum issues human-facing order numbers.
//
// Numbers look like LUX2405230001: the LUX prefix, the creation date as
// YYMMDD, and a four-digit daily sequence starting at 0001. The sequence
// resets each calendar day and must be issued atomically; implementations
// increment a per-day counter rather than scanning existing orders, so
// concurrent checkouts can never collide.
package ordernum

import (
	"context"
	"fmt"
	"time"
)

// Prefix is the brand prefix on every order number.
const Prefix = "LUX"

// Generator issues the next order number for the given creation time.
type Generator interface {
	Next(ctx context.Context, at time.Time) (string, error)
}

// Sequencer atomically increments and returns a per-day counter.
// The first call for a day returns 1.
type Sequencer interface {
	NextSequence(ctx context.Context, day string) (int64, error)
}

// DayKey formats the per-day counter key (YYMMDD).
func DayKey(at time.Time) string {
	return at.Format("060102")
}

// Format renders an order number from a creation time and daily sequence.
func Format(at time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", Prefix, DayKey(at), seq)
}

// sequenceGenerator derives numbers from any Sequencer.
type sequenceGenerator struct {
	seq Sequencer
}

// NewGenerator creates a Generator backed by the given Sequencer.
func NewGenerator(seq Sequencer) Generator {
	return &sequenceGenerator{seq: seq}
}

func (g *sequenceGenerator) Next(ctx context.Context, at time.Time) (string, error) {
	n, err := g.seq.NextSequence(ctx, DayKey(at))
	if err != nil {
		return "", fmt.Errorf("failed to advance order sequence: %w", err)
	}
	return Format(at, n), nil
}
