package shipping_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castell/luxora/internal/shipping"
)

func Test_FlatRateQuoter_Thresholds(t *testing.T) {
	tests := []struct {
		name        string
		flat        int64
		freeOver    int64
		subtotal    int64
		expected    int64
		explanation string
	}{
		{
			name:        "below threshold pays flat rate",
			flat:        1500,
			freeOver:    10000,
			subtotal:    2000,
			expected:    1500,
			explanation: "2000 <= 10000, flat $15 applies",
		},
		{
			name:        "exactly at threshold still pays",
			flat:        1500,
			freeOver:    10000,
			subtotal:    10000,
			expected:    1500,
			explanation: "Free shipping requires subtotal strictly above the threshold",
		},
		{
			name:        "one cent over threshold ships free",
			flat:        1500,
			freeOver:    10000,
			subtotal:    10001,
			expected:    0,
			explanation: "10001 > 10000 ships free",
		},
		{
			name:        "zero threshold disables free shipping",
			flat:        1500,
			freeOver:    0,
			subtotal:    1000000,
			expected:    1500,
			explanation: "freeOver of 0 means every order pays",
		},
		{
			name:        "empty cart pays flat rate",
			flat:        1500,
			freeOver:    10000,
			subtotal:    0,
			expected:    1500,
			explanation: "Zero subtotal is below the threshold",
		},
		{
			name:        "zero flat rate",
			flat:        0,
			freeOver:    0,
			subtotal:    5000,
			expected:    0,
			explanation: "Free shipping for everyone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := shipping.NewFlatRateQuoter(tt.flat, tt.freeOver, "standard")

			charge, err := q.Quote(context.Background(), tt.subtotal)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, charge.AmountCents, tt.explanation)
			assert.Equal(t, "standard", charge.Method)
		})
	}
}

func Test_FlatRateQuoter_NegativeSubtotal(t *testing.T) {
	q := shipping.NewFlatRateQuoter(1500, 10000, "standard")

	charge, err := q.Quote(context.Background(), -1)

	assert.ErrorIs(t, err, shipping.ErrNegativeSubtotal)
	assert.Nil(t, charge)
}

func Test_FlatRateQuoter_DefaultMethod(t *testing.T) {
	q := shipping.NewFlatRateQuoter(500, 0, "")

	charge, err := q.Quote(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, "standard", charge.Method, "Empty method falls back to standard")
}
