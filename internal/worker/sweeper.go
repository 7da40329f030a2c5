// Package worker runs background maintenance loops.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/telemetry"
)

// SweeperConfig holds cart expiry sweeper configuration.
type SweeperConfig struct {
	// WorkerID uniquely identifies this sweeper instance in logs.
	WorkerID string

	// Interval is how often expired carts are swept.
	Interval time.Duration
}

// Sweeper periodically deletes carts whose expiry has passed. Expiry is
// soft: a cart past its expiresAt stays readable until a sweep removes it.
type Sweeper struct {
	config  SweeperConfig
	carts   domain.CartStore
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewSweeper creates a cart expiry sweeper.
func NewSweeper(carts domain.CartStore, metrics *telemetry.Metrics, config SweeperConfig, logger *slog.Logger) *Sweeper {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("sweeper-%s", uuid.New().String()[:8])
	}
	if config.Interval == 0 {
		config.Interval = 1 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		config:  config,
		carts:   carts,
		metrics: metrics,
		logger:  logger,
	}
}

// Start sweeps until the context is cancelled. One sweep runs immediately on
// start so a restarted process never waits a full interval.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("cart sweeper starting",
		"worker_id", s.config.WorkerID,
		"interval", s.config.Interval,
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cart sweeper shutting down", "worker_id", s.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.carts.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("cart sweep failed",
			"worker_id", s.config.WorkerID,
			"error", err,
		)
		return
	}

	if removed > 0 {
		s.metrics.CartsExpired.Add(float64(removed))
		s.logger.Info("expired carts removed",
			"worker_id", s.config.WorkerID,
			"count", removed,
		)
	}
}
