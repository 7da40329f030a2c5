package address_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castell/luxora/internal/address"
	"github.com/castell/luxora/internal/domain"
)

func validAddress() domain.Address {
	return domain.Address{
		FullName:   "Jordan Smith",
		Line1:      "123 Main St",
		City:       "Portland",
		State:      "OR",
		PostalCode: "97201",
		Country:    "US",
	}
}

func Test_BasicValidator_AcceptsCompleteAddress(t *testing.T) {
	v := address.NewBasicValidator()

	result, err := v.Validate(context.Background(), validAddress())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func Test_BasicValidator_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Address)
		field   string
	}{
		{"missing full name", func(a *domain.Address) { a.FullName = "" }, "fullName"},
		{"missing line1", func(a *domain.Address) { a.Line1 = "  " }, "line1"},
		{"missing city", func(a *domain.Address) { a.City = "" }, "city"},
		{"missing postal code", func(a *domain.Address) { a.PostalCode = "" }, "postalCode"},
		{"missing country", func(a *domain.Address) { a.Country = "" }, "country"},
	}

	v := address.NewBasicValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := validAddress()
			tt.mutate(&addr)

			result, err := v.Validate(context.Background(), addr)

			require.NoError(t, err)
			assert.False(t, result.IsValid)
			assert.Contains(t, result.Fields(), tt.field)
		})
	}
}

func Test_BasicValidator_USRules(t *testing.T) {
	v := address.NewBasicValidator()

	t.Run("zip plus four accepted", func(t *testing.T) {
		addr := validAddress()
		addr.PostalCode = "97201-1234"

		result, err := v.Validate(context.Background(), addr)
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("malformed zip rejected", func(t *testing.T) {
		addr := validAddress()
		addr.PostalCode = "ABC123"

		result, err := v.Validate(context.Background(), addr)
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Fields(), "postalCode")
	})

	t.Run("state required for US", func(t *testing.T) {
		addr := validAddress()
		addr.State = ""

		result, err := v.Validate(context.Background(), addr)
		require.NoError(t, err)
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Fields(), "state")
	})

	t.Run("non-US skips zip and state checks", func(t *testing.T) {
		addr := validAddress()
		addr.Country = "GB"
		addr.State = ""
		addr.PostalCode = "SW1A 1AA"

		result, err := v.Validate(context.Background(), addr)
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})
}

func Test_BasicValidator_CountryCodeShape(t *testing.T) {
	v := address.NewBasicValidator()

	addr := validAddress()
	addr.Country = "USA"

	result, err := v.Validate(context.Background(), addr)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Fields(), "country")
}
