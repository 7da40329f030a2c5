package coupon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castell/luxora/internal/coupon"
	"github.com/castell/luxora/internal/pricing"
)

func Test_StaticTable_Find(t *testing.T) {
	table := coupon.DefaultTable()

	tests := []struct {
		name     string
		code     string
		wantCode string
		wantErr  bool
	}{
		{name: "exact match", code: "WELCOME10", wantCode: "WELCOME10"},
		{name: "lowercase is normalized", code: "save20", wantCode: "SAVE20"},
		{name: "surrounding whitespace is trimmed", code: "  vip25  ", wantCode: "VIP25"},
		{name: "unknown code", code: "NOPE", wantErr: true},
		{name: "empty code", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := table.Find(context.Background(), tt.code)

			if tt.wantErr {
				assert.ErrorIs(t, err, coupon.ErrNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, c.Code)
		})
	}
}

func Test_DefaultTable_Promotions(t *testing.T) {
	table := coupon.DefaultTable()
	ctx := context.Background()

	welcome, err := table.Find(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, pricing.CouponPercentage, welcome.Kind)
	assert.Equal(t, 10.0, welcome.PercentOff)
	assert.Equal(t, int64(5000), welcome.MinSubtotalCents)

	save, err := table.Find(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, pricing.CouponFixed, save.Kind)
	assert.Equal(t, int64(2000), save.AmountOffCents)
	assert.Equal(t, int64(10000), save.MinSubtotalCents)
}

func Test_Coupon_Rule(t *testing.T) {
	c := coupon.Coupon{
		Code:           "SPRING15",
		Kind:           pricing.CouponPercentage,
		PercentOff:     15,
		Description:    "15% off",
	}

	rule := c.Rule()

	assert.Equal(t, "SPRING15", rule.Code)
	assert.Equal(t, pricing.CouponPercentage, rule.Kind)
	assert.Equal(t, 15.0, rule.PercentOff)
	assert.Equal(t, "15% off", rule.Description)
}

func Test_Normalize(t *testing.T) {
	assert.Equal(t, "WELCOME10", coupon.Normalize(" welcome10 "))
	assert.Equal(t, "", coupon.Normalize("   "))
}
