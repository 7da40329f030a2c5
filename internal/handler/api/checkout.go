package api

import (
	"net/http"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/handler"
	"github.com/castell/luxora/internal/service"
)

// CheckoutHandler exposes order placement over HTTP.
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type addressPayload struct {
	FullName   string `json:"fullName" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

func (a addressPayload) address() domain.Address {
	return domain.Address{
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type paymentMethodPayload struct {
	Kind      string `json:"kind" validate:"required"`
	Last4     string `json:"last4"`
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
}

// placeOrderRequest is the checkout payload. The billing address defaults
// to the shipping address when omitted.
type placeOrderRequest struct {
	ShippingAddress addressPayload       `json:"shippingAddress" validate:"required"`
	BillingAddress  *addressPayload      `json:"billingAddress"`
	PaymentMethod   paymentMethodPayload `json:"paymentMethod" validate:"required"`
	Currency        string               `json:"currency"`
}

// PlaceOrder handles POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req placeOrderRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	billing := req.ShippingAddress.address()
	if req.BillingAddress != nil {
		billing = req.BillingAddress.address()
	}

	order, err := h.checkout.PlaceOrder(r.Context(), service.PlaceOrderParams{
		CustomerID:      custID,
		ShippingAddress: req.ShippingAddress.address(),
		BillingAddress:  billing,
		PaymentMethod: domain.PaymentMethod{
			Kind:      req.PaymentMethod.Kind,
			Last4:     req.PaymentMethod.Last4,
			Provider:  req.PaymentMethod.Provider,
			Reference: req.PaymentMethod.Reference,
		},
		Currency: req.Currency,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, order)
}
