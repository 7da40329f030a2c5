package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig holds error tracking configuration.
type SentryConfig struct {
	// DSN is the Sentry Data Source Name. Empty disables error tracking.
	DSN string

	// Environment identifies the deployment environment (dev, prod).
	Environment string

	// Release is the application version identifier.
	Release string

	// SampleRate controls the percentage of errors to capture (0.0 to 1.0).
	// Zero means capture everything.
	SampleRate float64
}

// sentryEnabled is set once at startup; capture calls are no-ops before
// InitSentry runs or when no DSN is configured.
var sentryEnabled bool

// InitSentry initializes error tracking. The returned cleanup flushes
// buffered events and must be called on shutdown.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	if cfg.DSN == "" {
		logger.Info("error tracking disabled, SENTRY_DSN not configured")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  sampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentryEnabled = true
	logger.Info("error tracking initialized",
		"environment", cfg.Environment,
		"sample_rate", sampleRate,
	)

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

// CaptureError reports an error with optional key/value context.
// Safe to call when error tracking is disabled.
func CaptureError(err error, extras map[string]interface{}) {
	if !sentryEnabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value.
func CapturePanic(rec interface{}, extras map[string]interface{}) {
	if !sentryEnabled || rec == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		sentry.CurrentHub().Recover(rec)
	})
}
