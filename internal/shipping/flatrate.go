package shipping

import (
	"context"
)

// FlatRateQuoter charges a fixed shipping fee, waived above a free-shipping
// threshold. Used when real carrier integration is not needed.
type FlatRateQuoter struct {
	flatCents     int64
	freeOverCents int64 // 0 disables free shipping
	method        string
}

// NewFlatRateQuoter creates a flat-rate shipping quoter.
// Orders with a subtotal strictly greater than freeOverCents ship free.
func NewFlatRateQuoter(flatCents, freeOverCents int64, method string) Quoter {
	if method == "" {
		method = "standard"
	}
	return &FlatRateQuoter{
		flatCents:     flatCents,
		freeOverCents: freeOverCents,
		method:        method,
	}
}

// Quote returns the flat charge, or zero above the free-shipping threshold.
func (q *FlatRateQuoter) Quote(ctx context.Context, subtotalCents int64) (*Charge, error) {
	if subtotalCents < 0 {
		return nil, ErrNegativeSubtotal
	}

	amount := q.flatCents
	if q.freeOverCents > 0 && subtotalCents > q.freeOverCents {
		amount = 0
	}

	return &Charge{
		AmountCents: amount,
		Method:      q.method,
	}, nil
}
