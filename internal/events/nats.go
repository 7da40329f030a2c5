package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSEmitter publishes JSON events to NATS subjects.
type NATSEmitter struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSEmitter creates an emitter over an established NATS connection.
func NewNATSEmitter(conn *nats.Conn, logger *slog.Logger) *NATSEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSEmitter{conn: conn, logger: logger}
}

// Emit publishes the payload as JSON. Failures are logged and discarded.
func (e *NATSEmitter) Emit(ctx context.Context, subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("failed to encode event payload",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return
	}

	if err := e.conn.Publish(subject, data); err != nil {
		e.logger.Error("failed to publish event",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
	}
}
