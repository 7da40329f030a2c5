// Package routes maps HTTP routes onto their handlers.
package routes

import (
	"net/http"

	"github.com/castell/luxora/internal/handler/api"
	"github.com/castell/luxora/internal/router"
)

// APIDeps contains dependencies for storefront API routes
type APIDeps struct {
	CartHandler     *api.CartHandler
	CheckoutHandler *api.CheckoutHandler
	OrderHandler    *api.OrderHandler
	HealthHandler   *api.HealthHandler

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}

// RegisterAPIRoutes registers the versioned storefront API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Cart
	r.Get("/api/v1/cart", deps.CartHandler.Get)
	r.Delete("/api/v1/cart", deps.CartHandler.Clear)
	r.Post("/api/v1/cart/items", deps.CartHandler.AddItem)
	r.Put("/api/v1/cart/items/{productID}", deps.CartHandler.UpdateItem)
	r.Delete("/api/v1/cart/items/{productID}", deps.CartHandler.RemoveItem)
	r.Post("/api/v1/cart/coupons", deps.CartHandler.ApplyCoupon)
	r.Delete("/api/v1/cart/coupons/{code}", deps.CartHandler.RemoveCoupon)

	// Checkout
	r.Post("/api/v1/checkout", deps.CheckoutHandler.PlaceOrder)

	// Orders
	r.Get("/api/v1/orders", deps.OrderHandler.List)
	r.Get("/api/v1/orders/number/{number}", deps.OrderHandler.GetByNumber)
	r.Get("/api/v1/orders/{orderID}", deps.OrderHandler.Get)
	r.Patch("/api/v1/orders/{orderID}/status", deps.OrderHandler.UpdateStatus)
	r.Post("/api/v1/orders/{orderID}/cancel", deps.OrderHandler.Cancel)
	r.Post("/api/v1/orders/{orderID}/return", deps.OrderHandler.RequestReturn)
	r.Post("/api/v1/orders/{orderID}/refunds", deps.OrderHandler.ProcessRefund)
	r.Get("/api/v1/orders/{orderID}/refundable", deps.OrderHandler.RefundableAmount)

	// Operational endpoints
	r.Get("/healthz", deps.HealthHandler.Liveness)
	r.Get("/readyz", deps.HealthHandler.Readiness)
	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}
