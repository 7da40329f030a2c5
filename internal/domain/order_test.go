package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/pricing"
)

var orderNow = time.Date(2024, 5, 23, 12, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()

	order, err := domain.NewOrder(domain.NewOrderParams{
		Number:     "LUX2405230001",
		CustomerID: uuid.New(),
		Items: []domain.OrderItem{
			{ProductID: uuid.New(), Name: "Test Product", UnitPriceCents: 1000, Quantity: 2},
		},
		Pricing: pricing.Pricing{
			SubtotalCents: 2000,
			Tax:           pricing.Tax{AmountCents: 160, Rate: 0.08},
			Shipping:      pricing.Shipping{AmountCents: 1500, Method: "standard"},
			TotalCents:    3660,
		},
		PaymentMethod: domain.PaymentMethod{Kind: "card", Last4: "4242", Reference: "pi_123"},
		Now:           orderNow,
	})
	require.NoError(t, err)
	return order
}

// advance walks the order through legal transitions up to target.
func advance(t *testing.T, order *domain.Order, target domain.OrderStatus) {
	t.Helper()

	path := []domain.OrderStatus{
		domain.OrderConfirmed,
		domain.OrderProcessing,
		domain.OrderShipped,
		domain.OrderDelivered,
	}
	for _, status := range path {
		if order.Status == target {
			return
		}
		require.NoError(t, order.UpdateStatus(status, "", "test", orderNow))
	}
	require.Equal(t, target, order.Status)
}

func Test_NewOrder(t *testing.T) {
	order := newTestOrder(t)

	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "LUX2405230001", order.Number)
	assert.Equal(t, "usd", order.Currency, "Currency defaults to usd")
	assert.Empty(t, order.Timeline, "The initial status has no timeline entry")
	assert.Equal(t, "standard", order.Shipping.Method)
}

func Test_NewOrder_RejectsEmptyItems(t *testing.T) {
	_, err := domain.NewOrder(domain.NewOrderParams{Number: "LUX2405230001", Now: orderNow})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func Test_Order_Normalize_RecomputesDerivedAmounts(t *testing.T) {
	order := newTestOrder(t)

	// Corrupt the stored derived values; Normalize must restore them.
	order.Items[0].SubtotalCents = 999999
	order.Pricing.SubtotalCents = 1
	order.Pricing.TotalCents = 1

	order.Normalize()

	assert.Equal(t, int64(2000), order.Items[0].SubtotalCents, "1000 * 2")
	assert.Equal(t, int64(2000), order.Pricing.SubtotalCents)
	assert.Equal(t, int64(3660), order.Pricing.TotalCents, "2000 + 160 + 1500 - 0")
}

func Test_CanTransition_FullTable(t *testing.T) {
	all := []domain.OrderStatus{
		domain.OrderPending, domain.OrderConfirmed, domain.OrderProcessing,
		domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled,
		domain.OrderReturned, domain.OrderRefunded,
	}

	legal := map[domain.OrderStatus][]domain.OrderStatus{
		domain.OrderPending:    {domain.OrderConfirmed, domain.OrderCancelled},
		domain.OrderConfirmed:  {domain.OrderProcessing, domain.OrderCancelled},
		domain.OrderProcessing: {domain.OrderShipped, domain.OrderCancelled},
		domain.OrderShipped:    {domain.OrderDelivered, domain.OrderReturned},
		domain.OrderDelivered:  {domain.OrderReturned},
		domain.OrderCancelled:  {},
		domain.OrderReturned:   {domain.OrderRefunded},
		domain.OrderRefunded:   {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, domain.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func Test_Order_UpdateStatus_LegalPath(t *testing.T) {
	order := newTestOrder(t)

	steps := []domain.OrderStatus{
		domain.OrderConfirmed,
		domain.OrderProcessing,
		domain.OrderShipped,
		domain.OrderDelivered,
	}
	for _, status := range steps {
		require.NoError(t, order.UpdateStatus(status, "note", "admin", orderNow))
	}

	assert.Equal(t, domain.OrderDelivered, order.Status)
	require.Len(t, order.Timeline, 4, "One timeline entry per transition")
	assert.Equal(t, domain.OrderConfirmed, order.Timeline[0].Status)
	assert.Equal(t, "admin", order.Timeline[0].Actor)
	require.NotNil(t, order.Shipping.ShippedAt)
	require.NotNil(t, order.Shipping.DeliveredAt)
}

func Test_Order_UpdateStatus_IllegalTransitionLeavesOrderUnchanged(t *testing.T) {
	order := newTestOrder(t)

	err := order.UpdateStatus(domain.OrderShipped, "", "admin", orderNow)

	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Empty(t, order.Timeline)
}

func Test_Order_UpdateStatus_TerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []domain.OrderStatus{domain.OrderCancelled, domain.OrderRefunded} {
		order := newTestOrder(t)
		if terminal == domain.OrderCancelled {
			require.NoError(t, order.UpdateStatus(domain.OrderCancelled, "", "test", orderNow))
		} else {
			advance(t, order, domain.OrderDelivered)
			require.NoError(t, order.RequestReturn(nil, "defective", "customer", orderNow))
			require.NoError(t, order.UpdateStatus(domain.OrderRefunded, "", "test", orderNow))
		}

		for _, to := range []domain.OrderStatus{
			domain.OrderPending, domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered,
		} {
			assert.ErrorIs(t, order.UpdateStatus(to, "", "test", orderNow), domain.ErrIllegalTransition,
				"%s -> %s must be rejected", terminal, to)
		}
	}
}

func Test_Order_CanCancel(t *testing.T) {
	order := newTestOrder(t)
	assert.True(t, order.CanCancel(), "pending orders are cancellable")

	advance(t, order, domain.OrderConfirmed)
	assert.True(t, order.CanCancel(), "confirmed orders are cancellable")

	advance(t, order, domain.OrderShipped)
	assert.False(t, order.CanCancel(), "shipped orders are not cancellable")
}

func Test_Order_CanReturn_Window(t *testing.T) {
	order := newTestOrder(t)
	advance(t, order, domain.OrderDelivered)

	assert.True(t, order.CanReturn(orderNow.Add(29*24*time.Hour)), "Within the 30-day window")
	assert.True(t, order.CanReturn(orderNow.Add(domain.ReturnWindow)), "Exactly at the window edge")
	assert.False(t, order.CanReturn(orderNow.Add(domain.ReturnWindow+time.Second)), "Past the window")
}

func Test_Order_RequestReturn(t *testing.T) {
	t.Run("delivered within window", func(t *testing.T) {
		order := newTestOrder(t)
		advance(t, order, domain.OrderDelivered)

		err := order.RequestReturn(nil, "defective", "customer", orderNow.Add(24*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, domain.OrderReturned, order.Status)
		require.Len(t, order.Returns, 1)
		assert.Equal(t, "defective", order.Returns[0].Reason)
	})

	t.Run("window closed", func(t *testing.T) {
		order := newTestOrder(t)
		advance(t, order, domain.OrderDelivered)

		err := order.RequestReturn(nil, "too late", "customer", orderNow.Add(31*24*time.Hour))

		assert.ErrorIs(t, err, domain.ErrReturnWindowClosed)
		assert.Equal(t, domain.OrderDelivered, order.Status)
		assert.Empty(t, order.Returns)
	})

	t.Run("not delivered", func(t *testing.T) {
		order := newTestOrder(t)
		advance(t, order, domain.OrderShipped)

		err := order.RequestReturn(nil, "changed my mind", "customer", orderNow)

		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})
}

func Test_Order_ProcessRefund_Partial(t *testing.T) {
	order := newTestOrder(t)

	err := order.ProcessRefund(1000, "damaged item", "re_1", "admin", orderNow)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPartiallyRefunded, order.PaymentStatus)
	assert.Equal(t, domain.OrderPending, order.Status, "Partial refunds leave the order status alone")
	assert.Equal(t, int64(1000), order.RefundedCents())
	assert.Equal(t, int64(2660), order.RefundableAmountCents())
}

func Test_Order_ProcessRefund_FullForcesRefundedStatus(t *testing.T) {
	order := newTestOrder(t)
	advance(t, order, domain.OrderProcessing)

	err := order.ProcessRefund(3660, "order lost", "re_1", "admin", orderNow)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, order.PaymentStatus)
	assert.Equal(t, domain.OrderRefunded, order.Status, "A full refund forces refunded from any state")
	assert.Equal(t, int64(0), order.RefundableAmountCents())

	last := order.Timeline[len(order.Timeline)-1]
	assert.Equal(t, domain.OrderRefunded, last.Status)
	assert.Equal(t, "Order fully refunded", last.Note)
}

func Test_Order_ProcessRefund_CumulativeConservation(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.ProcessRefund(2000, "first", "re_1", "admin", orderNow))
	require.NoError(t, order.ProcessRefund(1000, "second", "re_2", "admin", orderNow))

	// 3000 refunded of 3660; 700 would breach the total.
	err := order.ProcessRefund(700, "third", "re_3", "admin", orderNow)
	assert.ErrorIs(t, err, domain.ErrRefundExceedsTotal)
	assert.Len(t, order.Refunds, 2, "The rejected refund is not recorded")

	// The exact remainder is fine and completes the refund.
	require.NoError(t, order.ProcessRefund(660, "remainder", "re_3", "admin", orderNow))
	assert.Equal(t, int64(3660), order.RefundedCents())
	assert.Equal(t, domain.PaymentRefunded, order.PaymentStatus)
	assert.Equal(t, domain.OrderRefunded, order.Status)
}

func Test_Order_ProcessRefund_RejectsNonPositiveAmounts(t *testing.T) {
	order := newTestOrder(t)

	assert.ErrorIs(t, order.ProcessRefund(0, "zero", "re_1", "admin", orderNow), domain.ErrInvalidRefund)
	assert.ErrorIs(t, order.ProcessRefund(-100, "negative", "re_1", "admin", orderNow), domain.ErrInvalidRefund)
	assert.Empty(t, order.Refunds)
}
