package tax

import (
	"context"
)

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator.
type Calculator interface {
	// Calculate computes tax for the given taxable amount.
	// The taxable amount is the discounted merchandise subtotal in cents.
	Calculate(ctx context.Context, taxableCents int64) (*Result, error)
}

// Result contains the calculated tax amount and the rate that produced it.
type Result struct {
	AmountCents int64
	Rate        float64
}
