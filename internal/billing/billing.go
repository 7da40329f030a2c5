package billing

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRefundFailed is returned when the payment provider rejects a refund.
	ErrRefundFailed = errors.New("payment provider rejected refund")
)

// Provider defines the interface for payment provider operations the order
// lifecycle needs. Implementations: StripeProvider, MockProvider.
type Provider interface {
	// RefundPayment returns money to the customer against an earlier payment.
	// PaymentReference is the provider's payment identifier captured at
	// checkout.
	RefundPayment(ctx context.Context, params RefundParams) (*Refund, error)
}

// RefundParams contains parameters for issuing a refund.
type RefundParams struct {
	PaymentReference string
	AmountCents      int64
	Reason           string
}

// Refund is the provider's record of an issued refund.
type Refund struct {
	ID          string
	AmountCents int64
	Status      string
	CreatedAt   time.Time
}
