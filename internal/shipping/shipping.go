package shipping

import (
	"context"
	"errors"
)

var (
	// ErrNegativeSubtotal is returned when a quote is requested for a negative subtotal.
	ErrNegativeSubtotal = errors.New("subtotal must not be negative")
)

// Quoter defines the interface for estimating shipping charges.
// Implementations can integrate with carriers or apply flat-rate rules.
type Quoter interface {
	// Quote returns the shipping charge for an order with the given
	// merchandise subtotal in cents.
	Quote(ctx context.Context, subtotalCents int64) (*Charge, error)
}

// Charge represents a shipping charge and the method it was quoted for.
type Charge struct {
	AmountCents int64
	Method      string
}
