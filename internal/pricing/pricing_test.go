package pricing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castell/luxora/internal/pricing"
	"github.com/castell/luxora/internal/shipping"
	"github.com/castell/luxora/internal/tax"
)

// standardCalculator mirrors the default storefront setup: 8% tax, $15 flat
// shipping free above $100.
func standardCalculator() *pricing.Calculator {
	return pricing.NewCalculator(
		tax.NewPercentageCalculator(0.08),
		shipping.NewFlatRateQuoter(1500, 10000, "standard"),
	)
}

func Test_Calculator_SingleItemBreakdown(t *testing.T) {
	calc := standardCalculator()

	// Two units at $10: subtotal 2000, tax 160, shipping 1500, total 3660.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 1000, Quantity: 2},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(2000), quote.Pricing.SubtotalCents)
	assert.Equal(t, int64(160), quote.Pricing.Tax.AmountCents, "2000 * 0.08 = 160")
	assert.Equal(t, 0.08, quote.Pricing.Tax.Rate)
	assert.Equal(t, int64(1500), quote.Pricing.Shipping.AmountCents)
	assert.Equal(t, "standard", quote.Pricing.Shipping.Method)
	assert.Equal(t, int64(0), quote.Pricing.Discount.AmountCents)
	assert.Equal(t, int64(3660), quote.Pricing.TotalCents, "2000 + 160 + 1500 = 3660")
	assert.Equal(t, 2, quote.TotalItems)
}

func Test_Calculator_EmptyLines(t *testing.T) {
	calc := standardCalculator()

	quote, err := calc.Quote(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Pricing.SubtotalCents)
	assert.Equal(t, int64(0), quote.Pricing.Tax.AmountCents)
	assert.Equal(t, 0, quote.TotalItems)
}

func Test_Calculator_InvalidLines(t *testing.T) {
	calc := standardCalculator()

	t.Run("negative unit price", func(t *testing.T) {
		_, err := calc.Quote(context.Background(), []pricing.Line{
			{UnitPriceCents: -100, Quantity: 1},
		}, nil)
		assert.Error(t, err)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := calc.Quote(context.Background(), []pricing.Line{
			{UnitPriceCents: 100, Quantity: 0},
		}, nil)
		assert.Error(t, err)
	})
}

func Test_Calculator_PercentageCoupon(t *testing.T) {
	calc := standardCalculator()

	// Subtotal 6000, WELCOME10-style 10% off: discount 600,
	// taxable 5400, tax 432, shipping 1500, total 7332.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 3000, Quantity: 2},
	}, []pricing.CouponRule{
		{Code: "WELCOME10", Kind: pricing.CouponPercentage, PercentOff: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(6000), quote.Pricing.SubtotalCents)
	assert.Equal(t, int64(600), quote.Pricing.Discount.AmountCents, "6000 * 10% = 600")
	assert.Equal(t, int64(432), quote.Pricing.Tax.AmountCents, "tax applies to the discounted subtotal: 5400 * 0.08")
	assert.Equal(t, int64(7332), quote.Pricing.TotalCents, "6000 + 432 + 1500 - 600")
	assert.Equal(t, []int64{600}, quote.CouponDiscounts)
	assert.Equal(t, "WELCOME10", quote.Pricing.Discount.Code)
}

func Test_Calculator_StackedCouponsComputeIndependently(t *testing.T) {
	calc := standardCalculator()

	// Subtotal 20000. 10% (2000) + fixed 2000 both computed against the
	// original subtotal, never compounded: discount 4000.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 20000, Quantity: 1},
	}, []pricing.CouponRule{
		{Code: "WELCOME10", Kind: pricing.CouponPercentage, PercentOff: 10},
		{Code: "SAVE20", Kind: pricing.CouponFixed, AmountOffCents: 2000},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4000), quote.Pricing.Discount.AmountCents)
	assert.Equal(t, []int64{2000, 2000}, quote.CouponDiscounts)
	// Taxable 16000 * 0.08 = 1280; shipping free above 10000.
	assert.Equal(t, int64(1280), quote.Pricing.Tax.AmountCents)
	assert.Equal(t, int64(0), quote.Pricing.Shipping.AmountCents)
	assert.Equal(t, int64(17280), quote.Pricing.TotalCents, "20000 + 1280 + 0 - 4000")
	assert.Equal(t, "WELCOME10,SAVE20", quote.Pricing.Discount.Code)
}

func Test_Calculator_DiscountClampedToSubtotal(t *testing.T) {
	calc := pricing.NewCalculator(
		tax.NewNoTaxCalculator(),
		shipping.NewFlatRateQuoter(0, 0, "standard"),
	)

	// Fixed discounts exceeding the subtotal never push it negative.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 1500, Quantity: 1},
	}, []pricing.CouponRule{
		{Code: "BIG", Kind: pricing.CouponFixed, AmountOffCents: 2000},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1500), quote.Pricing.Discount.AmountCents, "Discount clamps to the subtotal")
	assert.Equal(t, int64(0), quote.Pricing.TotalCents, "Total never goes negative")
}

func Test_Calculator_PercentageRounding(t *testing.T) {
	calc := pricing.NewCalculator(
		tax.NewNoTaxCalculator(),
		shipping.NewFlatRateQuoter(0, 0, "standard"),
	)

	// 15% of 1333 = 199.95, rounds to 200.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 1333, Quantity: 1},
	}, []pricing.CouponRule{
		{Code: "ODD", Kind: pricing.CouponPercentage, PercentOff: 15},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200), quote.Pricing.Discount.AmountCents)
}

func Test_Calculator_FreeShippingUsesOriginalSubtotal(t *testing.T) {
	calc := standardCalculator()

	// Subtotal 10500 crosses the free-shipping threshold even though the
	// discounted subtotal (8500) would not.
	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 10500, Quantity: 1},
	}, []pricing.CouponRule{
		{Code: "SAVE20", Kind: pricing.CouponFixed, AmountOffCents: 2000},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Pricing.Shipping.AmountCents, "Threshold is checked against the pre-discount subtotal")
}

func Test_Calculator_QuoteIsIdempotent(t *testing.T) {
	calc := standardCalculator()

	lines := []pricing.Line{
		{UnitPriceCents: 2350, Quantity: 3},
		{UnitPriceCents: 799, Quantity: 1},
	}
	rules := []pricing.CouponRule{
		{Code: "WELCOME10", Kind: pricing.CouponPercentage, PercentOff: 10},
	}

	first, err := calc.Quote(context.Background(), lines, rules)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := calc.Quote(context.Background(), lines, rules)
		require.NoError(t, err)
		assert.Equal(t, first.Pricing, again.Pricing, "Re-quoting identical inputs must not drift")
	}
}

func Test_Calculator_UnknownCouponKindContributesNothing(t *testing.T) {
	calc := standardCalculator()

	quote, err := calc.Quote(context.Background(), []pricing.Line{
		{UnitPriceCents: 5000, Quantity: 1},
	}, []pricing.CouponRule{
		{Code: "WEIRD", Kind: pricing.CouponKind("mystery"), PercentOff: 50},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Pricing.Discount.AmountCents)
}
