package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/address"
	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/events"
	"github.com/castell/luxora/internal/ordernum"
	"github.com/castell/luxora/internal/pricing"
	"github.com/castell/luxora/internal/telemetry"
)

// CheckoutService converts a customer's cart into an order.
type CheckoutService interface {
	// PlaceOrder validates the cart, re-prices it server-side, snapshots its
	// items into an immutable order, and clears the cart. The cart's
	// estimated pricing is never trusted.
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*domain.Order, error)
}

// PlaceOrderParams carries the checkout inputs gathered from the customer.
type PlaceOrderParams struct {
	CustomerID      uuid.UUID
	ShippingAddress domain.Address
	BillingAddress  domain.Address
	PaymentMethod   domain.PaymentMethod
	Currency        string
}

type checkoutService struct {
	carts     domain.CartStore
	orders    domain.OrderStore
	catalog   domain.Catalog
	calc      *pricing.Calculator
	numbers   ordernum.Generator
	addresses address.Validator
	emitter   events.Emitter
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(
	carts domain.CartStore,
	orders domain.OrderStore,
	catalog domain.Catalog,
	calc *pricing.Calculator,
	numbers ordernum.Generator,
	addresses address.Validator,
	emitter events.Emitter,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		carts:     carts,
		orders:    orders,
		catalog:   catalog,
		calc:      calc,
		numbers:   numbers,
		addresses: addresses,
		emitter:   emitter,
		metrics:   metrics,
		logger:    logger,
	}
}

// PlaceOrder converts the customer's cart into an order.
func (s *checkoutService) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*domain.Order, error) {
	cart, err := s.carts.GetByCustomer(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	result, err := s.addresses.Validate(ctx, params.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to validate shipping address: %w", err)
	}
	if !result.IsValid {
		return nil, domain.Errorf(domain.EINVALID, "checkout.place_order",
			"shipping address rejected: %s", firstProblem(result))
	}

	// Stock may have moved since items were added to the cart.
	for _, item := range cart.Items {
		ok, err := s.catalog.IsAvailable(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.Errorf(domain.ECONFLICT, "checkout.place_order",
				"insufficient stock for %q", item.Name)
		}
	}

	quote, err := s.calc.Quote(ctx, cart.Lines(), cart.Rules())
	if err != nil {
		return nil, fmt.Errorf("failed to price order: %w", err)
	}

	now := time.Now().UTC()
	number, err := s.numbers.Next(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	order, err := domain.NewOrder(domain.NewOrderParams{
		Number:          number,
		CustomerID:      params.CustomerID,
		Items:           snapshotItems(cart.Items),
		Pricing:         quote.Pricing,
		Currency:        params.Currency,
		PaymentMethod:   params.PaymentMethod,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order exists; an emptied-cart save failure must not undo checkout.
	cart.Clear(now)
	cart.ApplyQuote(&pricing.Quote{Pricing: pricing.Pricing{
		Shipping: pricing.Shipping{Method: quote.Pricing.Shipping.Method},
	}})
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error("failed to clear cart after checkout",
			slog.String("customer_id", params.CustomerID.String()),
			slog.String("order_number", order.Number),
			slog.String("error", err.Error()))
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderValue.Observe(float64(order.Pricing.TotalCents))
	s.metrics.OrderItemCount.Observe(float64(quote.TotalItems))

	s.emitter.Emit(ctx, events.SubjectOrderCreated+"."+order.ID.String(), order)

	s.logger.Info("order placed",
		slog.String("order_number", order.Number),
		slog.String("customer_id", params.CustomerID.String()),
		slog.Int64("total_cents", order.Pricing.TotalCents))

	return order, nil
}

func firstProblem(result *address.ValidationResult) string {
	if len(result.Errors) == 0 {
		return "address is not deliverable"
	}
	return result.Errors[0].Message
}

// snapshotItems copies cart lines into order items. Order items are frozen at
// checkout; later product edits never reach past orders.
func snapshotItems(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		var variant *domain.Variant
		if item.Variant != nil {
			v := *item.Variant
			variant = &v
		}
		out[i] = domain.OrderItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			SKU:            item.SKU,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			Variant:        variant,
			ImageURL:       item.ImageURL,
			SubtotalCents:  item.UnitPriceCents * int64(item.Quantity),
		}
	}
	return out
}
