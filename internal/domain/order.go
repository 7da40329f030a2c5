package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/pricing"
)

// Order domain errors.
var (
	ErrOrderNotFound      = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyOrder         = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrIllegalTransition  = &Error{Code: ECONFLICT, Message: "Order status transition not permitted"}
	ErrRefundExceedsTotal = &Error{Code: EINVALID, Message: "Refund would exceed order total"}
	ErrInvalidRefund      = &Error{Code: EINVALID, Message: "Refund amount must be greater than 0"}
	ErrReturnWindowClosed = &Error{Code: EINVALID, Message: "Order is outside the return window"}
)

// OrderStatus is an order's position in its lifecycle.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
	OrderRefunded   OrderStatus = "refunded"
)

// PaymentStatus tracks how much of an order's total has been settled or
// returned to the customer.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentRefunded          PaymentStatus = "refunded"
)

// ReturnWindow is how long after creation a delivered order may be returned.
const ReturnWindow = 30 * 24 * time.Hour

// transitions is the legal status transition table. Statuses absent from a
// from-set are rejected; cancelled and refunded are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderReturned},
	OrderDelivered:  {OrderReturned},
	OrderCancelled:  {},
	OrderReturned:   {OrderRefunded},
	OrderRefunded:   {},
}

// CanTransition reports whether from may legally move to to.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderItem is an immutable snapshot of a purchased line item, copied from
// the cart at creation time and independent of later product changes.
type OrderItem struct {
	ProductID      uuid.UUID `json:"product"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	UnitPriceCents int64     `json:"price"`
	Quantity       int       `json:"quantity"`
	Variant        *Variant  `json:"variant,omitempty"`
	ImageURL       string    `json:"image,omitempty"`
	SubtotalCents  int64     `json:"subtotal"`
}

// Address is a shipping or billing address captured at checkout.
type Address struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// PaymentMethod describes how an order was paid.
type PaymentMethod struct {
	Kind      string `json:"kind"` // "card", "paypal", ...
	Last4     string `json:"last4,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Reference string `json:"reference,omitempty"` // provider payment identifier
}

// ShippingInfo holds fulfillment tracking details.
type ShippingInfo struct {
	Method         string     `json:"method"`
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

// TimelineEntry is one append-only audit record of a status change.
// The timeline logs changes only; an order's initial status has no entry.
type TimelineEntry struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"timestamp"`
	Note   string      `json:"note,omitempty"`
	Actor  string      `json:"updatedBy,omitempty"`
}

// Refund is one append-only refund record.
type Refund struct {
	AmountCents int64     `json:"amount"`
	Reason      string    `json:"reason"`
	RefundID    string    `json:"refundId,omitempty"`
	ProcessedAt time.Time `json:"processedAt"`
	ProcessedBy string    `json:"processedBy,omitempty"`
}

// Return is one append-only return request record.
type Return struct {
	Items       []OrderItem `json:"items,omitempty"`
	Reason      string      `json:"reason"`
	RequestedAt time.Time   `json:"requestedAt"`
	RequestedBy string      `json:"requestedBy,omitempty"`
}

// Order is an immutable snapshot of a completed checkout with a mutable
// status, timeline, and refund history. Orders are never physically deleted;
// cancellation and refund are terminal statuses, not row removal.
type Order struct {
	ID         uuid.UUID `json:"id"`
	Number     string    `json:"orderNumber"`
	CustomerID uuid.UUID `json:"customer"`

	Items    []OrderItem     `json:"items"`
	Pricing  pricing.Pricing `json:"pricing"`
	Currency string          `json:"currency"`

	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`

	ShippingAddress Address      `json:"shippingAddress"`
	BillingAddress  Address      `json:"billingAddress"`
	Shipping        ShippingInfo `json:"shipping"`

	Timeline []TimelineEntry `json:"timeline"`
	Refunds  []Refund        `json:"refunds"`
	Returns  []Return        `json:"returns"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewOrderParams carries everything needed to create an order.
type NewOrderParams struct {
	Number          string
	CustomerID      uuid.UUID
	Items           []OrderItem
	Pricing         pricing.Pricing
	Currency        string
	PaymentMethod   PaymentMethod
	ShippingAddress Address
	BillingAddress  Address
	Now             time.Time
}

// NewOrder creates an order in the pending state. The items list must be
// non-empty; the order number is assigned here, exactly once.
func NewOrder(params NewOrderParams) (*Order, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	o := &Order{
		ID:              uuid.New(),
		Number:          params.Number,
		CustomerID:      params.CustomerID,
		Items:           params.Items,
		Pricing:         params.Pricing,
		Currency:        currency,
		Status:          OrderPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   params.PaymentMethod,
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  params.BillingAddress,
		Shipping:        ShippingInfo{Method: params.Pricing.Shipping.Method},
		Timeline:        []TimelineEntry{},
		Refunds:         []Refund{},
		Returns:         []Return{},
		CreatedAt:       params.Now,
		UpdatedAt:       params.Now,
	}
	o.Normalize()
	return o, nil
}

// Normalize recomputes derived pricing fields from first principles:
// every item subtotal from price and quantity, and the order total from the
// component amounts. Called before every persist so stored derived values
// are never trusted.
func (o *Order) Normalize() {
	var subtotal int64
	for i := range o.Items {
		o.Items[i].SubtotalCents = o.Items[i].UnitPriceCents * int64(o.Items[i].Quantity)
		subtotal += o.Items[i].SubtotalCents
	}
	o.Pricing.SubtotalCents = subtotal

	total := subtotal + o.Pricing.Tax.AmountCents + o.Pricing.Shipping.AmountCents - o.Pricing.Discount.AmountCents
	if total < 0 {
		total = 0
	}
	o.Pricing.TotalCents = total
}

// UpdateStatus moves the order to a new status. Transitions outside the
// legal table fail with ErrIllegalTransition and leave the order unchanged.
// Legal transitions append a timeline entry.
func (o *Order) UpdateStatus(newStatus OrderStatus, note, actor string, now time.Time) error {
	if !CanTransition(o.Status, newStatus) {
		return ErrIllegalTransition
	}

	o.Status = newStatus
	o.appendTimeline(newStatus, note, actor, now)

	switch newStatus {
	case OrderShipped:
		at := now
		o.Shipping.ShippedAt = &at
	case OrderDelivered:
		at := now
		o.Shipping.DeliveredAt = &at
	}

	o.UpdatedAt = now
	return nil
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

// CanReturn reports whether the order may be returned: it must be delivered
// and within the return window, measured from creation at evaluation time.
func (o *Order) CanReturn(now time.Time) bool {
	return o.Status == OrderDelivered && now.Sub(o.CreatedAt) <= ReturnWindow
}

// RefundedCents is the cumulative refunded amount.
func (o *Order) RefundedCents() int64 {
	var sum int64
	for _, r := range o.Refunds {
		sum += r.AmountCents
	}
	return sum
}

// RefundableAmountCents is how much of the order total remains refundable.
func (o *Order) RefundableAmountCents() int64 {
	remaining := o.Pricing.TotalCents - o.RefundedCents()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProcessRefund appends a refund record. The cumulative refunded amount may
// never exceed the order total. When the cumulative refund reaches the total
// the order is forced to refunded from any state, bypassing the transition
// table; this is the one sanctioned bypass. Partial refunds set the payment
// status to partially_refunded without changing the order status.
func (o *Order) ProcessRefund(amountCents int64, reason, refundID, actor string, now time.Time) error {
	if amountCents <= 0 {
		return ErrInvalidRefund
	}
	if o.RefundedCents()+amountCents > o.Pricing.TotalCents {
		return ErrRefundExceedsTotal
	}

	o.Refunds = append(o.Refunds, Refund{
		AmountCents: amountCents,
		Reason:      reason,
		RefundID:    refundID,
		ProcessedAt: now,
		ProcessedBy: actor,
	})

	if o.RefundedCents() == o.Pricing.TotalCents {
		o.PaymentStatus = PaymentRefunded
		if o.Status != OrderRefunded {
			o.Status = OrderRefunded
			o.appendTimeline(OrderRefunded, "Order fully refunded", actor, now)
		}
	} else {
		o.PaymentStatus = PaymentPartiallyRefunded
	}

	o.UpdatedAt = now
	return nil
}

// RequestReturn appends a return request. The order must be returnable.
func (o *Order) RequestReturn(items []OrderItem, reason, actor string, now time.Time) error {
	if !o.CanReturn(now) {
		if o.Status == OrderDelivered {
			return ErrReturnWindowClosed
		}
		return ErrIllegalTransition
	}

	o.Returns = append(o.Returns, Return{
		Items:       items,
		Reason:      reason,
		RequestedAt: now,
		RequestedBy: actor,
	})

	return o.UpdateStatus(OrderReturned, reason, actor, now)
}

func (o *Order) appendTimeline(status OrderStatus, note, actor string, now time.Time) {
	o.Timeline = append(o.Timeline, TimelineEntry{
		Status: status,
		At:     now,
		Note:   note,
		Actor:  actor,
	})
}

// OrderStore persists orders. Orders are the single source of truth for
// completed checkouts; implementations must never delete rows.
type OrderStore interface {
	// Create persists a new order.
	Create(ctx context.Context, order *Order) error

	// Update persists status, timeline, refund, and return changes.
	Update(ctx context.Context, order *Order) error

	// GetByID retrieves an order. Returns ErrOrderNotFound when absent.
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*Order, error)

	// ListByCustomer returns a customer's orders, newest first. A non-empty
	// status restricts the result to orders currently in that status.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status OrderStatus) ([]*Order, error)
}
