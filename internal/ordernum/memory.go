package ordernum

import (
	"context"
	"sync"
)

// MemorySequencer is an in-process sequencer for tests and single-node
// development. Counters reset on restart.
type MemorySequencer struct {
	mu   sync.Mutex
	seqs map[string]int64
}

// NewMemorySequencer creates an in-memory sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{seqs: make(map[string]int64)}
}

// NextSequence increments and returns the counter for the given day.
func (s *MemorySequencer) NextSequence(ctx context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seqs[day]++
	return s.seqs[day], nil
}
