package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/billing"
	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/events"
	"github.com/castell/luxora/internal/telemetry"
)

// OrderService provides business logic for order lifecycle operations.
// Order creation lives in CheckoutService; everything after creation is here.
type OrderService interface {
	// GetOrder retrieves a single order by ID.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// GetOrderByNumber retrieves a single order by its human-facing number.
	GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error)

	// ListOrders returns a customer's orders, newest first. A non-empty
	// status restricts the result to that status.
	ListOrders(ctx context.Context, customerID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error)

	// UpdateStatus moves an order through its lifecycle. Transitions outside
	// the legal table fail and leave the order unchanged.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus, note, actor string) (*domain.Order, error)

	// CancelOrder cancels an order still in a cancellable state.
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason, actor string) (*domain.Order, error)

	// RequestReturn records a return request for a delivered order within
	// the return window and moves it to returned.
	RequestReturn(ctx context.Context, orderID uuid.UUID, reason, actor string) (*domain.Order, error)

	// ProcessRefund refunds part or all of an order through the payment
	// provider and records the refund. A full refund forces the order to
	// refunded.
	ProcessRefund(ctx context.Context, orderID uuid.UUID, amountCents int64, reason, actor string) (*domain.Order, error)

	// RefundableAmount returns how much of the order total remains
	// refundable.
	RefundableAmount(ctx context.Context, orderID uuid.UUID) (int64, error)
}

type orderService struct {
	orders   domain.OrderStore
	provider billing.Provider
	emitter  events.Emitter
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(
	orders domain.OrderStore,
	provider billing.Provider,
	emitter events.Emitter,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		orders:   orders,
		provider: provider,
		emitter:  emitter,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetOrder retrieves a single order by ID.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// GetOrderByNumber retrieves a single order by its human-facing number.
func (s *orderService) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.orders.GetByNumber(ctx, number)
}

// ListOrders returns a customer's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, customerID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error) {
	if status != "" && !validStatus(status) {
		return nil, domain.Errorf(domain.EINVALID, "order.list", "unknown order status: %s", status)
	}
	return s.orders.ListByCustomer(ctx, customerID, status)
}

// UpdateStatus moves an order through its lifecycle.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus, note, actor string) (*domain.Order, error) {
	if !validStatus(newStatus) {
		return nil, domain.Errorf(domain.EINVALID, "order.update_status", "unknown order status: %s", newStatus)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.UpdateStatus(newStatus, note, actor, time.Now().UTC()); err != nil {
		s.metrics.TransitionsDenied.WithLabelValues(string(from), string(newStatus)).Inc()
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(from), string(newStatus)).Inc()
	s.emitOrderUpdated(ctx, order)

	return order, nil
}

// CancelOrder cancels an order still in a cancellable state.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason, actor string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, orderID, domain.OrderCancelled, reason, actor)
}

// RequestReturn records a return request and moves the order to returned.
func (s *orderService) RequestReturn(ctx context.Context, orderID uuid.UUID, reason, actor string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.RequestReturn(nil, reason, actor, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist return: %w", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(from), string(domain.OrderReturned)).Inc()
	s.emitOrderUpdated(ctx, order)

	return order, nil
}

// ProcessRefund refunds through the payment provider, then records the
// refund on the order. The provider call happens first so a provider
// rejection never leaves a phantom refund record.
func (s *orderService) ProcessRefund(ctx context.Context, orderID uuid.UUID, amountCents int64, reason, actor string) (*domain.Order, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidRefund
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if amountCents > order.RefundableAmountCents() {
		return nil, domain.ErrRefundExceedsTotal
	}

	providerRefund, err := s.provider.RefundPayment(ctx, billing.RefundParams{
		PaymentReference: order.PaymentMethod.Reference,
		AmountCents:      amountCents,
		Reason:           reason,
	})
	if err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "order.process_refund", "payment provider rejected refund")
	}

	if err := order.ProcessRefund(amountCents, reason, providerRefund.ID, actor, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist refund: %w", err)
	}

	s.metrics.RefundsIssued.Inc()
	s.metrics.RefundAmount.Add(float64(amountCents))
	s.emitOrderUpdated(ctx, order)

	return order, nil
}

// RefundableAmount returns how much of the order total remains refundable.
func (s *orderService) RefundableAmount(ctx context.Context, orderID uuid.UUID) (int64, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return order.RefundableAmountCents(), nil
}

func (s *orderService) emitOrderUpdated(ctx context.Context, order *domain.Order) {
	s.emitter.Emit(ctx, events.SubjectOrderUpdated+"."+order.ID.String(), order)
}

func validStatus(status domain.OrderStatus) bool {
	switch status {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderProcessing,
		domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled,
		domain.OrderReturned, domain.OrderRefunded:
		return true
	}
	return false
}
