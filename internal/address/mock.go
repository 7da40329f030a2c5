package address

import (
	"context"

	"github.com/castell/luxora/internal/domain"
)

// MockValidator is a test double with an overridable validate func.
// The zero value accepts every address.
type MockValidator struct {
	ValidateFunc func(ctx context.Context, addr domain.Address) (*ValidationResult, error)
}

func (m *MockValidator) Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, addr)
	}
	return &ValidationResult{IsValid: true}, nil
}
