package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/castell/luxora/internal/shipping"
	"github.com/castell/luxora/internal/tax"
)

// CouponKind distinguishes percentage coupons from fixed-amount coupons.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Line is a (unit price, quantity) pair contributing to the subtotal.
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// CouponRule is an applied discount rule.
// Percentage coupons carry PercentOff in (0, 100]; fixed coupons carry
// AmountOffCents >= 0.
type CouponRule struct {
	Code           string
	Kind           CouponKind
	PercentOff     float64
	AmountOffCents int64
	Description    string
}

// Tax is the tax portion of a pricing breakdown.
type Tax struct {
	AmountCents int64   `json:"amount"`
	Rate        float64 `json:"rate"`
}

// Shipping is the shipping portion of a pricing breakdown.
type Shipping struct {
	AmountCents int64  `json:"amount"`
	Method      string `json:"method"`
}

// Discount is the aggregate discount portion of a pricing breakdown.
type Discount struct {
	AmountCents int64  `json:"amount"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Pricing is a complete monetary breakdown for a cart or order.
// Invariant: TotalCents == SubtotalCents + Tax.AmountCents +
// Shipping.AmountCents - Discount.AmountCents, clamped at zero.
type Pricing struct {
	SubtotalCents int64    `json:"subtotal"`
	Tax           Tax      `json:"tax"`
	Shipping      Shipping `json:"shipping"`
	Discount      Discount `json:"discount"`
	TotalCents    int64    `json:"total"`
}

// Quote is the result of pricing a set of lines with applied coupons.
// CouponDiscounts is aligned index-for-index with the input rules.
type Quote struct {
	Pricing         Pricing
	TotalItems      int
	CouponDiscounts []int64
}

// Calculator prices carts and orders. It owns no state beyond its injected
// tax and shipping collaborators, so quoting is idempotent: pricing the same
// inputs twice produces identical results.
type Calculator struct {
	tax      tax.Calculator
	shipping shipping.Quoter
}

// NewCalculator creates a pricing calculator.
func NewCalculator(taxCalc tax.Calculator, shippingQuoter shipping.Quoter) *Calculator {
	return &Calculator{
		tax:      taxCalc,
		shipping: shippingQuoter,
	}
}

// Quote computes the full pricing breakdown for the given lines and coupons.
//
// Each coupon contributes independently against the original subtotal;
// percentage coupons are never compounded against each other. The summed
// discount is clamped to the subtotal. Tax is calculated on the discounted
// subtotal. The grand total is clamped at zero.
func (c *Calculator) Quote(ctx context.Context, lines []Line, rules []CouponRule) (*Quote, error) {
	var subtotal int64
	var totalItems int
	for _, line := range lines {
		if line.UnitPriceCents < 0 {
			return nil, fmt.Errorf("unit price must not be negative: %d", line.UnitPriceCents)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %d", line.Quantity)
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
		totalItems += line.Quantity
	}

	perCoupon := make([]int64, len(rules))
	var discount int64
	for i, rule := range rules {
		perCoupon[i] = rule.discountAgainst(subtotal)
		discount += perCoupon[i]
	}
	if discount > subtotal {
		discount = subtotal
	}

	taxable := subtotal - discount
	taxResult, err := c.tax.Calculate(ctx, taxable)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate tax: %w", err)
	}

	charge, err := c.shipping.Quote(ctx, subtotal)
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}

	total := subtotal + taxResult.AmountCents + charge.AmountCents - discount
	if total < 0 {
		total = 0
	}

	return &Quote{
		Pricing: Pricing{
			SubtotalCents: subtotal,
			Tax: Tax{
				AmountCents: taxResult.AmountCents,
				Rate:        taxResult.Rate,
			},
			Shipping: Shipping{
				AmountCents: charge.AmountCents,
				Method:      charge.Method,
			},
			Discount: Discount{
				AmountCents: discount,
				Code:        joinCodes(rules),
				Description: joinDescriptions(rules),
			},
			TotalCents: total,
		},
		TotalItems:      totalItems,
		CouponDiscounts: perCoupon,
	}, nil
}

// discountAgainst computes this rule's contribution against the original
// subtotal. Percentage amounts round half away from zero.
func (r CouponRule) discountAgainst(subtotalCents int64) int64 {
	switch r.Kind {
	case CouponPercentage:
		return int64(math.Round(float64(subtotalCents) * r.PercentOff / 100))
	case CouponFixed:
		return r.AmountOffCents
	default:
		return 0
	}
}

func joinCodes(rules []CouponRule) string {
	codes := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Code != "" {
			codes = append(codes, r.Code)
		}
	}
	return strings.Join(codes, ",")
}

func joinDescriptions(rules []CouponRule) string {
	descs := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Description != "" {
			descs = append(descs, r.Description)
		}
	}
	return strings.Join(descs, "; ")
}
