package billing

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider executes refunds against the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed provider with the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// RefundPayment issues a refund against a payment intent.
func (p *StripeProvider) RefundPayment(ctx context.Context, params RefundParams) (*Refund, error) {
	refundParams := &stripe.RefundParams{
		PaymentIntent: stripe.String(params.PaymentReference),
		Amount:        stripe.Int64(params.AmountCents),
	}
	refundParams.Context = ctx
	if params.Reason != "" {
		refundParams.AddMetadata("reason", params.Reason)
	}

	r, err := p.api.Refunds.New(refundParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	return &Refund{
		ID:          r.ID,
		AmountCents: r.Amount,
		Status:      string(r.Status),
		CreatedAt:   time.Unix(r.Created, 0),
	}, nil
}
