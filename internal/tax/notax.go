package tax

import (
	"context"
)

// NoTaxCalculator always returns zero tax.
// Used for jurisdictions without sales tax and for testing.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a calculator that returns zero tax.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// Calculate returns zero tax regardless of the taxable amount.
func (c *NoTaxCalculator) Calculate(ctx context.Context, taxableCents int64) (*Result, error) {
	return &Result{AmountCents: 0, Rate: 0}, nil
}
