package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for business-level observability.
type Metrics struct {
	// Cart activity
	CartMutations    *prometheus.CounterVec // labeled by operation
	CartValue        prometheus.Histogram
	CouponApplied    prometheus.Counter
	CouponRejected   *prometheus.CounterVec // labeled by reason
	CartsExpired     prometheus.Counter

	// Orders
	OrdersCreated     prometheus.Counter
	OrderValue        prometheus.Histogram
	OrderItemCount    prometheus.Histogram
	StatusTransitions *prometheus.CounterVec // labeled by from, to
	TransitionsDenied *prometheus.CounterVec // labeled by from, to

	// Refunds
	RefundsIssued prometheus.Counter
	RefundAmount  prometheus.Counter
}

// NewMetrics creates and registers all business metrics.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "luxora"
	}

	subsystem := "business"

	return &Metrics{
		CartMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_mutations_total",
				Help:      "Total cart mutations by operation",
			},
			[]string{"operation"},
		),
		CartValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_cents",
				Help:      "Cart estimated total at mutation time, in cents",
				Buckets:   prometheus.ExponentialBuckets(500, 2.5, 10),
			},
		),
		CouponApplied: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupons_applied_total",
				Help:      "Total coupons successfully applied",
			},
		),
		CouponRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupons_rejected_total",
				Help:      "Total coupon applications rejected, by reason",
			},
			[]string{"reason"},
		),
		CartsExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carts_expired_total",
				Help:      "Total carts removed by the expiry sweeper",
			},
		),
		OrdersCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created",
			},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_cents",
				Help:      "Order grand total, in cents",
				Buckets:   prometheus.ExponentialBuckets(500, 2.5, 10),
			},
		),
		OrderItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of units per order",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),
		StatusTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_transitions_total",
				Help:      "Total order status transitions, by from and to status",
			},
			[]string{"from", "to"},
		),
		TransitionsDenied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_transitions_denied_total",
				Help:      "Total order status transitions rejected as illegal",
			},
			[]string{"from", "to"},
		),
		RefundsIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refunds_issued_total",
				Help:      "Total refunds issued",
			},
		),
		RefundAmount: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refund_amount_cents_total",
				Help:      "Cumulative refunded amount, in cents",
			},
		),
	}
}
