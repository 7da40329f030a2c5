package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/pricing"
)

// Cart domain errors.
var (
	ErrCartNotFound         = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound     = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity      = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrInvalidCoupon        = &Error{Code: ENOTFOUND, Message: "Coupon code is not valid"}
	ErrCouponThresholdNotMet = &Error{Code: EINVALID, Message: "Cart subtotal does not meet the coupon minimum"}
	ErrCouponAlreadyApplied  = &Error{Code: ECONFLICT, Message: "Coupon already applied to cart"}
)

// CartTTL is the soft expiry window for inactive carts.
// Every mutation extends the cart's expiry by this duration.
const CartTTL = 30 * 24 * time.Hour

// Variant is a named product option (e.g., size or color) distinguishing
// otherwise-identical line items.
type Variant struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// CartItem is a line item staged in a cart. The unit price is snapshotted
// when the item is first added and is not refreshed by later adds.
type CartItem struct {
	ProductID      uuid.UUID `json:"product"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	UnitPriceCents int64     `json:"price"`
	Quantity       int       `json:"quantity"`
	Variant        *Variant  `json:"variant,omitempty"`
	ImageURL       string    `json:"image,omitempty"`
	AddedAt        time.Time `json:"addedAt"`
}

// matches reports whether the item has the given composite key.
// Items are unique per (product, variant) pair.
func (i CartItem) matches(productID uuid.UUID, variant *Variant) bool {
	if i.ProductID != productID {
		return false
	}
	if i.Variant == nil || variant == nil {
		return i.Variant == nil && variant == nil
	}
	return *i.Variant == *variant
}

// AppliedCoupon records a coupon attached to a cart along with the discount
// it contributed at the last recompute.
type AppliedCoupon struct {
	Code           string             `json:"code"`
	Kind           pricing.CouponKind `json:"type"`
	PercentOff     float64            `json:"percentOff,omitempty"`
	AmountOffCents int64              `json:"amountOff,omitempty"`
	DiscountCents  int64              `json:"discount"`
	Description    string             `json:"description,omitempty"`
}

// Rule converts the applied coupon back into a pricing rule.
func (a AppliedCoupon) Rule() pricing.CouponRule {
	return pricing.CouponRule{
		Code:           a.Code,
		Kind:           a.Kind,
		PercentOff:     a.PercentOff,
		AmountOffCents: a.AmountOffCents,
		Description:    a.Description,
	}
}

// Cart is a customer's staging area of selected products prior to checkout.
// One cart exists per customer, created lazily on first access.
//
// The derived fields (SubtotalCents through EstimatedTotalCents) are always
// recomputed from items and coupons before being read or persisted; they are
// never mutated independently.
type Cart struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"user"`
	Items      []CartItem      `json:"items"`
	Coupons    []AppliedCoupon `json:"appliedCoupons"`

	SubtotalCents          int64 `json:"subtotal"`
	TotalItems             int   `json:"totalItems"`
	EstimatedTaxCents      int64 `json:"estimatedTax"`
	EstimatedShippingCents int64 `json:"estimatedShipping"`
	EstimatedTotalCents    int64 `json:"estimatedTotal"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewCart creates an empty cart for a customer.
func NewCart(customerID uuid.UUID, now time.Time) *Cart {
	return &Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		Items:      []CartItem{},
		Coupons:    []AppliedCoupon{},
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(CartTTL),
	}
}

// AddItem merges a line item into the cart. If an item with the same
// (product, variant) key exists, its quantity is incremented and the unit
// price of the first add wins; otherwise the item is appended.
func (c *Cart) AddItem(item CartItem, now time.Time) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].matches(item.ProductID, item.Variant) {
			c.Items[i].Quantity += item.Quantity
			c.touch(now)
			return nil
		}
	}

	item.AddedAt = now
	c.Items = append(c.Items, item)
	c.touch(now)
	return nil
}

// SetItemQuantity sets an item's quantity exactly. A quantity of zero or
// less removes the item. Returns false when no item matches.
func (c *Cart) SetItemQuantity(productID uuid.UUID, variant *Variant, quantity int, now time.Time) bool {
	if quantity <= 0 {
		return c.RemoveItem(productID, variant, now)
	}

	for i := range c.Items {
		if c.Items[i].matches(productID, variant) {
			c.Items[i].Quantity = quantity
			c.touch(now)
			return true
		}
	}
	return false
}

// RemoveItem removes the item with the given composite key.
// Returns false when no item matches.
func (c *Cart) RemoveItem(productID uuid.UUID, variant *Variant, now time.Time) bool {
	for i := range c.Items {
		if c.Items[i].matches(productID, variant) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch(now)
			return true
		}
	}
	return false
}

// Clear empties the cart's items and applied coupons.
func (c *Cart) Clear(now time.Time) {
	c.Items = []CartItem{}
	c.Coupons = []AppliedCoupon{}
	c.touch(now)
}

// HasCoupon reports whether a coupon with the given normalized code is applied.
func (c *Cart) HasCoupon(code string) bool {
	for _, ac := range c.Coupons {
		if ac.Code == code {
			return true
		}
	}
	return false
}

// AddCoupon appends an applied coupon. Callers are responsible for
// validation (existence, threshold, duplicates) before appending.
func (c *Cart) AddCoupon(applied AppliedCoupon, now time.Time) {
	c.Coupons = append(c.Coupons, applied)
	c.touch(now)
}

// RemoveCoupon removes an applied coupon by normalized code.
// Returns false when the code is not applied.
func (c *Cart) RemoveCoupon(code string, now time.Time) bool {
	for i, ac := range c.Coupons {
		if ac.Code == code {
			c.Coupons = append(c.Coupons[:i], c.Coupons[i+1:]...)
			c.touch(now)
			return true
		}
	}
	return false
}

// Lines converts the cart's items into pricing lines, in item order.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		}
	}
	return lines
}

// Rules converts the cart's applied coupons into pricing rules, in order.
func (c *Cart) Rules() []pricing.CouponRule {
	rules := make([]pricing.CouponRule, len(c.Coupons))
	for i, ac := range c.Coupons {
		rules[i] = ac.Rule()
	}
	return rules
}

// ApplyQuote writes a pricing quote into the cart's derived fields and
// records each coupon's discount contribution.
func (c *Cart) ApplyQuote(q *pricing.Quote) {
	c.SubtotalCents = q.Pricing.SubtotalCents
	c.TotalItems = q.TotalItems
	c.EstimatedTaxCents = q.Pricing.Tax.AmountCents
	c.EstimatedShippingCents = q.Pricing.Shipping.AmountCents
	c.EstimatedTotalCents = q.Pricing.TotalCents

	for i := range c.Coupons {
		if i < len(q.CouponDiscounts) {
			c.Coupons[i].DiscountCents = q.CouponDiscounts[i]
		}
	}
}

// touch bumps the update timestamp and extends the soft expiry.
func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(CartTTL)
}

// CartStore persists carts. A cart is the single source of truth for its
// customer's staged items; implementations must not maintain a second copy.
type CartStore interface {
	// GetByCustomer retrieves a customer's cart.
	// Returns ErrCartNotFound when the customer has no cart.
	GetByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)

	// Save upserts a cart keyed by customer.
	Save(ctx context.Context, cart *Cart) error

	// Delete removes a cart.
	Delete(ctx context.Context, cartID uuid.UUID) error

	// DeleteExpired removes carts whose soft expiry has passed.
	// Returns the number of carts removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
