package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
	"github.com/castell/luxora/internal/handler"
	"github.com/castell/luxora/internal/service"
)

// OrderHandler exposes order lifecycle operations over HTTP.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("orderID"))
	if err != nil {
		return uuid.Nil, domain.Invalid("api.orders", "order ID must be a valid UUID")
	}
	return id, nil
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	custID, err := customerID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	status := domain.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.orders.ListOrders(r.Context(), custID, status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// Get handles GET /api/v1/orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// GetByNumber handles GET /api/v1/orders/number/{number}
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// updateStatusRequest is the payload for a status transition.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
	Actor  string `json:"actor"`
}

// UpdateStatus handles PATCH /api/v1/orders/{orderID}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status), req.Note, req.Actor)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// cancelRequest is the payload for a cancellation.
type cancelRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

// Cancel handles POST /api/v1/orders/{orderID}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req cancelRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), id, req.Reason, req.Actor)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// returnRequest is the payload for a return request.
type returnRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor"`
}

// RequestReturn handles POST /api/v1/orders/{orderID}/return
func (h *OrderHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req returnRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.RequestReturn(r.Context(), id, req.Reason, req.Actor)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// refundRequest is the payload for issuing a refund.
type refundRequest struct {
	AmountCents int64  `json:"amount" validate:"required,min=1"`
	Reason      string `json:"reason" validate:"required"`
	Actor       string `json:"actor"`
}

// ProcessRefund handles POST /api/v1/orders/{orderID}/refunds
func (h *OrderHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req refundRequest
	if handled, err := handler.DecodeJSON(w, r, &req); handled {
		return
	} else if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.ProcessRefund(r.Context(), id, req.AmountCents, req.Reason, req.Actor)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, order)
}

// RefundableAmount handles GET /api/v1/orders/{orderID}/refundable
func (h *OrderHandler) RefundableAmount(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	amount, err := h.orders.RefundableAmount(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]int64{"refundableAmount": amount})
}
