package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/coupon"
	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/events"
	"github.com/castell/luxora/internal/pricing"
	"github.com/castell/luxora/internal/telemetry"
)

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// GetCart retrieves a customer's cart, creating an empty one lazily.
	GetCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)

	// AddItem adds a product to the cart or increments quantity if the same
	// (product, variant) pair is already present. The unit price of the
	// first add wins.
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int, variant *domain.Variant) (*domain.Cart, error)

	// UpdateItemQuantity sets an item's quantity exactly.
	// A quantity of zero or less removes the item.
	UpdateItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int, variant *domain.Variant) (*domain.Cart, error)

	// RemoveItem removes the matching (product, variant) item.
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID, variant *domain.Variant) (*domain.Cart, error)

	// ClearCart empties the cart's items and applied coupons.
	ClearCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)

	// ApplyCoupon validates and applies a coupon code to the cart.
	ApplyCoupon(ctx context.Context, customerID uuid.UUID, code string) (*domain.Cart, error)

	// RemoveCoupon removes an applied coupon by code.
	RemoveCoupon(ctx context.Context, customerID uuid.UUID, code string) (*domain.Cart, error)
}

type cartService struct {
	carts   domain.CartStore
	catalog domain.Catalog
	coupons coupon.Lookup
	calc    *pricing.Calculator
	emitter events.Emitter
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewCartService creates a new CartService instance.
func NewCartService(
	carts domain.CartStore,
	catalog domain.Catalog,
	coupons coupon.Lookup,
	calc *pricing.Calculator,
	emitter events.Emitter,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartService{
		carts:   carts,
		catalog: catalog,
		coupons: coupons,
		calc:    calc,
		emitter: emitter,
		metrics: metrics,
		logger:  logger,
	}
}

// GetCart retrieves a customer's cart, creating an empty one lazily.
func (s *cartService) GetCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.GetByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart = domain.NewCart(customerID, time.Now().UTC())
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a product to the cart or increments an existing line.
func (s *cartService) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int, variant *domain.Variant) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.ProductActive {
		return nil, domain.ErrProductUnavailable
	}

	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Stock is checked against the requested total for this line, not just
	// the increment.
	requested := quantity
	for _, item := range cart.Items {
		if item.ProductID == productID && variantEqual(item.Variant, variant) {
			requested += item.Quantity
		}
	}
	available, err := s.catalog.IsAvailable(ctx, productID, requested)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ErrInsufficientStock
	}

	item := domain.CartItem{
		ProductID:      product.ID,
		Name:           product.Name,
		SKU:            product.SKU,
		UnitPriceCents: product.PriceCents,
		Quantity:       quantity,
		Variant:        variant,
		ImageURL:       product.ImageURL,
	}
	if err := cart.AddItem(item, time.Now().UTC()); err != nil {
		return nil, err
	}

	return s.finalize(ctx, cart, "add_item")
}

// UpdateItemQuantity sets an item's quantity exactly; zero or less removes it.
func (s *cartService) UpdateItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int, variant *domain.Variant) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !cart.SetItemQuantity(productID, variant, quantity, time.Now().UTC()) {
		// No matching item is a no-op, not an error.
		return cart, nil
	}

	return s.finalize(ctx, cart, "update_quantity")
}

// RemoveItem removes the matching (product, variant) item.
func (s *cartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID, variant *domain.Variant) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(productID, variant, time.Now().UTC()) {
		return cart, nil
	}

	return s.finalize(ctx, cart, "remove_item")
}

// ClearCart empties the cart's items and applied coupons.
func (s *cartService) ClearCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.Clear(time.Now().UTC())
	return s.finalize(ctx, cart, "clear")
}

// ApplyCoupon validates and applies a coupon code to the cart.
func (s *cartService) ApplyCoupon(ctx context.Context, customerID uuid.UUID, code string) (*domain.Cart, error) {
	normalized := coupon.Normalize(code)
	if normalized == "" {
		return nil, domain.Invalid("cart.apply_coupon", "coupon code is required")
	}

	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if cart.HasCoupon(normalized) {
		s.metrics.CouponRejected.WithLabelValues("already_applied").Inc()
		return nil, domain.ErrCouponAlreadyApplied
	}

	c, err := s.coupons.Find(ctx, normalized)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			s.metrics.CouponRejected.WithLabelValues("unknown_code").Inc()
			return nil, domain.ErrInvalidCoupon
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	// Threshold is checked once, at apply time. An applied coupon always
	// contributes afterwards, even if items are later removed.
	var subtotal int64
	for _, item := range cart.Items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	if subtotal < c.MinSubtotalCents {
		s.metrics.CouponRejected.WithLabelValues("threshold_not_met").Inc()
		return nil, domain.ErrCouponThresholdNotMet
	}

	cart.AddCoupon(domain.AppliedCoupon{
		Code:           c.Code,
		Kind:           c.Kind,
		PercentOff:     c.PercentOff,
		AmountOffCents: c.AmountOffCents,
		Description:    c.Description,
	}, time.Now().UTC())

	s.metrics.CouponApplied.Inc()
	return s.finalize(ctx, cart, "apply_coupon")
}

// RemoveCoupon removes an applied coupon by code.
func (s *cartService) RemoveCoupon(ctx context.Context, customerID uuid.UUID, code string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveCoupon(coupon.Normalize(code), time.Now().UTC()) {
		return cart, nil
	}

	return s.finalize(ctx, cart, "remove_coupon")
}

// finalize recomputes derived totals, persists the cart, and fans out the
// cart.updated event. Derived totals are never persisted stale: every
// mutation path ends here before the store write.
func (s *cartService) finalize(ctx context.Context, cart *domain.Cart, operation string) (*domain.Cart, error) {
	quote, err := s.calc.Quote(ctx, cart.Lines(), cart.Rules())
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}
	cart.ApplyQuote(quote)

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.metrics.CartMutations.WithLabelValues(operation).Inc()
	s.metrics.CartValue.Observe(float64(cart.EstimatedTotalCents))

	// Fire-and-forget; a failed publish never fails the mutation.
	s.emitter.Emit(ctx, events.SubjectCartUpdated+"."+cart.CustomerID.String(), cart)

	return cart, nil
}

func variantEqual(a, b *domain.Variant) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
