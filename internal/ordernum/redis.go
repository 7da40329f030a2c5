package ordernum

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sequenceTTL keeps yesterday's counter around long enough for clock skew
// between app instances, then lets it expire.
const sequenceTTL = 48 * time.Hour

// RedisSequencer issues daily sequences with a single atomic INCR per call.
type RedisSequencer struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSequencer creates a Redis-backed sequencer.
func NewRedisSequencer(client *redis.Client) *RedisSequencer {
	return &RedisSequencer{
		client:    client,
		keyPrefix: "luxora:ordernum:",
	}
}

// NextSequence increments and returns the counter for the given day.
func (s *RedisSequencer) NextSequence(ctx context.Context, day string) (int64, error) {
	key := s.keyPrefix + day

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment order sequence: %w", err)
	}

	// First issue of the day sets the expiry; later calls leave it alone.
	if n == 1 {
		if err := s.client.Expire(ctx, key, sequenceTTL).Err(); err != nil {
			return 0, fmt.Errorf("failed to set order sequence expiry: %w", err)
		}
	}

	return n, nil
}
