// Package address validates shipping and billing addresses at checkout.
package address

import (
	"context"

	"github.com/castell/luxora/internal/domain"
)

// Validator checks whether an address is complete enough to ship to.
// Implementations can use external APIs like USPS, Lob, or SmartyStreets;
// BasicValidator does offline format checks only.
type Validator interface {
	// Validate checks the address and returns field-level problems.
	// A nil error with a non-empty result means the address was rejected.
	Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error)
}

// ValidationResult contains the outcome of address validation.
type ValidationResult struct {
	IsValid bool
	Errors  []FieldError
}

// FieldError names one rejected address field.
type FieldError struct {
	Field   string
	Message string
}

// Fields flattens the errors into a field -> message map.
func (r *ValidationResult) Fields() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	fields := make(map[string]string, len(r.Errors))
	for _, fe := range r.Errors {
		fields[fe.Field] = fe.Message
	}
	return fields
}
