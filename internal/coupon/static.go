package coupon

import (
	"context"

	"github.com/castell/luxora/internal/pricing"
)

// StaticTable is an in-memory coupon lookup seeded at construction.
type StaticTable struct {
	coupons map[string]Coupon
}

// NewStaticTable creates a lookup over the given coupons.
// Codes are normalized to uppercase.
func NewStaticTable(coupons []Coupon) *StaticTable {
	table := make(map[string]Coupon, len(coupons))
	for _, c := range coupons {
		c.Code = Normalize(c.Code)
		table[c.Code] = c
	}
	return &StaticTable{coupons: table}
}

// DefaultTable returns the storefront's built-in promotion table.
func DefaultTable() *StaticTable {
	return NewStaticTable([]Coupon{
		{
			Code:             "WELCOME10",
			Kind:             pricing.CouponPercentage,
			PercentOff:       10,
			MinSubtotalCents: 5000,
			Description:      "10% off your first order",
		},
		{
			Code:             "SAVE20",
			Kind:             pricing.CouponFixed,
			AmountOffCents:   2000,
			MinSubtotalCents: 10000,
			Description:      "$20 off orders over $100",
		},
		{
			Code:             "VIP25",
			Kind:             pricing.CouponPercentage,
			PercentOff:       25,
			MinSubtotalCents: 25000,
			Description:      "25% off orders over $250",
		},
	})
}

// Find returns the coupon for the given code, or ErrNotFound.
func (t *StaticTable) Find(ctx context.Context, code string) (*Coupon, error) {
	c, ok := t.coupons[Normalize(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}
