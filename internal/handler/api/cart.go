// Package api implements the JSON HTTP handlers for the storefront API.
package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/handler"
	"github.com/castell/luxora/internal/service"
)

// customerIDHeader carries the authenticated customer's ID, set by the edge
// proxy after session validation. The API itself does no authentication.
const customerIDHeader = "X-Customer-ID"

// CartHandler exposes cart operations over HTTP.
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// customerID extracts and parses the customer ID header.
func customerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(customerIDHeader)
	if raw == "" {
		return uuid.Nil, domain.Errorf(domain.EUNAUTHORIZED, "api.customer_id", "missing %s header", customerIDHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Errorf(domain.EUNAUTHORIZED, "api.customer_id", "invalid %s header", customerIDHeader)
	}
	return id, nil
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.GetCart(r.Context(), custID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// addItemRequest is the payload for adding a line item.
type addItemRequest struct {
	ProductID     string          `json:"productId" validate:"required,uuid"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	VariantName   string          `json:"variantName" validate:"required_with=VariantOption"`
	VariantOption string          `json:"variantOption" validate:"required_with=VariantName"`
}

func (req addItemRequest) variant() *domain.Variant {
	if req.VariantName == "" && req.VariantOption == "" {
		return nil
	}
	return &domain.Variant{Name: req.VariantName, Option: req.VariantOption}
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req addItemRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	productID, _ := uuid.Parse(req.ProductID)

	cart, err := h.carts.AddItem(r.Context(), custID, productID, req.Quantity, req.variant())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// updateItemRequest is the payload for changing a line item's quantity.
type updateItemRequest struct {
	Quantity      int    `json:"quantity" validate:"min=0"`
	VariantName   string `json:"variantName"`
	VariantOption string `json:"variantOption"`
}

func (req updateItemRequest) variant() *domain.Variant {
	if req.VariantName == "" && req.VariantOption == "" {
		return nil
	}
	return &domain.Variant{Name: req.VariantName, Option: req.VariantOption}
}

// UpdateItem handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("api.cart.update_item", "product ID must be a valid UUID"))
		return
	}

	var req updateItemRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.UpdateItemQuantity(r.Context(), custID, productID, req.Quantity, req.variant())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
//
// Variant selection for deletes rides on query parameters since DELETE
// bodies are unreliable through proxies.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	productID, err := uuid.Parse(r.PathValue("productID"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("api.cart.remove_item", "product ID must be a valid UUID"))
		return
	}

	var variant *domain.Variant
	if name := r.URL.Query().Get("variantName"); name != "" {
		variant = &domain.Variant{Name: name, Option: r.URL.Query().Get("variantOption")}
	}

	cart, err := h.carts.RemoveItem(r.Context(), custID, productID, variant)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.ClearCart(r.Context(), custID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// applyCouponRequest is the payload for applying a coupon code.
type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ApplyCoupon handles POST /api/v1/cart/coupons
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req applyCouponRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.ApplyCoupon(r.Context(), custID, req.Code)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}

// RemoveCoupon handles DELETE /api/v1/cart/coupons/{code}
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.RemoveCoupon(r.Context(), custID, r.PathValue("code"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, cart)
}
