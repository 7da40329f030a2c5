package coupon

import (
	"context"
	"errors"
	"strings"

	"github.com/castell/luxora/internal/pricing"
)

var (
	// ErrNotFound is returned when a coupon code does not exist.
	ErrNotFound = errors.New("coupon not found")
)

// Coupon is a named discount rule. Exactly one of PercentOff or
// AmountOffCents is meaningful, selected by Kind.
type Coupon struct {
	Code             string
	Kind             pricing.CouponKind
	PercentOff       float64
	AmountOffCents   int64
	MinSubtotalCents int64
	Description      string
}

// Rule converts the coupon into a pricing rule.
func (c Coupon) Rule() pricing.CouponRule {
	return pricing.CouponRule{
		Code:           c.Code,
		Kind:           c.Kind,
		PercentOff:     c.PercentOff,
		AmountOffCents: c.AmountOffCents,
		Description:    c.Description,
	}
}

// Lookup resolves coupon codes to discount rules.
// Implementations: StaticTable. A database-backed lookup can be swapped in
// without touching cart logic.
type Lookup interface {
	// Find returns the coupon for the given code, or ErrNotFound.
	// Codes are matched case-insensitively.
	Find(ctx context.Context, code string) (*Coupon, error)
}

// Normalize canonicalizes a coupon code for matching and storage.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
