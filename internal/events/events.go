// Package events fans out storefront mutations to real-time subscribers.
//
// Emission is strictly fire-and-forget: a failed publish is logged and
// dropped, and must never fail or roll back the mutation that triggered it.
package events

import (
	"context"
)

// Subjects for storefront events. Per-entity subjects append the entity
// identifier, e.g. "cart.updated.<customer>" or "order.updated.<order>".
const (
	SubjectCartUpdated  = "cart.updated"
	SubjectOrderCreated = "order.created"
	SubjectOrderUpdated = "order.updated"
)

// Emitter publishes an event payload to a subject.
type Emitter interface {
	Emit(ctx context.Context, subject string, payload any)
}

// Noop discards all events. Used in tests and when no broker is configured.
type Noop struct{}

// NewNoop creates an emitter that discards everything.
func NewNoop() *Noop {
	return &Noop{}
}

// Emit does nothing.
func (n *Noop) Emit(ctx context.Context, subject string, payload any) {}
