package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for testing and development.
// It simulates successful refunds without calling a payment API.
type MockProvider struct {
	// RefundPaymentFunc allows customizing refund behavior per test.
	RefundPaymentFunc func(ctx context.Context, params RefundParams) (*Refund, error)

	// Refunds stores issued refunds for assertions.
	Refunds []Refund
}

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// RefundPayment records and returns a successful refund, or delegates to
// RefundPaymentFunc when set.
func (m *MockProvider) RefundPayment(ctx context.Context, params RefundParams) (*Refund, error) {
	if m.RefundPaymentFunc != nil {
		return m.RefundPaymentFunc(ctx, params)
	}

	r := Refund{
		ID:          fmt.Sprintf("re_mock_%s", uuid.New().String()[:8]),
		AmountCents: params.AmountCents,
		Status:      "succeeded",
		CreatedAt:   time.Now(),
	}
	m.Refunds = append(m.Refunds, r)
	return &r, nil
}
