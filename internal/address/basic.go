package address

import (
	"context"
	"regexp"
	"strings"

	"github.com/castell/luxora/internal/domain"
)

// usZipPattern matches 5-digit and ZIP+4 codes.
var usZipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// BasicValidator performs offline format validation without external API
// calls: required fields, country code shape, and US postal code format.
type BasicValidator struct{}

// NewBasicValidator creates a new basic address validator.
func NewBasicValidator() Validator {
	return &BasicValidator{}
}

// Validate performs basic completeness and format checks on the address.
func (v *BasicValidator) Validate(ctx context.Context, addr domain.Address) (*ValidationResult, error) {
	var errs []FieldError

	required := []struct {
		field, value string
	}{
		{"fullName", addr.FullName},
		{"line1", addr.Line1},
		{"city", addr.City},
		{"postalCode", addr.PostalCode},
		{"country", addr.Country},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			errs = append(errs, FieldError{Field: req.field, Message: req.field + " is required"})
		}
	}

	country := strings.ToUpper(strings.TrimSpace(addr.Country))
	if country != "" && len(country) != 2 {
		errs = append(errs, FieldError{Field: "country", Message: "country must be a two-letter ISO code"})
	}

	if country == "US" {
		if addr.PostalCode != "" && !usZipPattern.MatchString(addr.PostalCode) {
			errs = append(errs, FieldError{Field: "postalCode", Message: "postal code must be a valid US ZIP code"})
		}
		if strings.TrimSpace(addr.State) == "" {
			errs = append(errs, FieldError{Field: "state", Message: "state is required for US addresses"})
		}
	}

	return &ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}, nil
}
