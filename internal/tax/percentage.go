package tax

import (
	"context"
	"math"
)

// PercentageCalculator calculates tax using a simple percentage rate.
type PercentageCalculator struct {
	rate float64 // e.g., 0.08 for 8%
}

// NewPercentageCalculator creates a new percentage-based tax calculator.
// Negative rates are treated as zero.
func NewPercentageCalculator(rate float64) Calculator {
	if rate < 0 {
		rate = 0
	}
	return &PercentageCalculator{rate: rate}
}

// Calculate computes tax on the taxable amount using the configured rate.
// Amounts round half away from zero to the nearest cent.
func (c *PercentageCalculator) Calculate(ctx context.Context, taxableCents int64) (*Result, error) {
	if taxableCents < 0 {
		taxableCents = 0
	}

	amount := int64(math.Round(float64(taxableCents) * c.rate))

	return &Result{
		AmountCents: amount,
		Rate:        c.rate,
	}, nil
}
