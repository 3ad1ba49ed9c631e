package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	orders   OrderService
	payments PaymentService
	timeout  time.Duration
	log      *slog.Logger
}

func NewOrdersHandler(orders OrderService, payments PaymentService, timeout time.Duration, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		payments: payments,
		timeout:  timeout,
		log:      log,
	}
}

// POST /api/v1/orders
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.PlaceOrder(ctx, service.PlaceOrderRequest{
		CustomerID:          req.CustomerID,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		PromotionCode:       req.PromotionCode,
		Items:               toLineRequests(req.Items),
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx, roleFromContext(r.Context()), domain.OrderFilter{
		Status: domain.OrderStatus(strings.ToUpper(r.URL.Query().Get("status"))),
		Skip:   skip,
		Limit:  limit,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/orders/tracking/{token}
func (h *OrdersHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.GetOrderByTrackingToken(ctx, chi.URLParam(r, "token"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// PATCH /api/v1/orders/{id}/status
func (h *OrdersHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.UpdateOrderStatus(ctx, roleFromContext(r.Context()), id, domain.StatusChange{
		Status:                domain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/orders/{id}/payment
func (h *OrdersHandler) GetOrderPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payment, err := h.payments.GetOrderPayment(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertPayment(payment))
}

// POST /api/v1/guest-orders
func (h *OrdersHandler) PlaceGuestOrder(w http.ResponseWriter, r *http.Request) {
	var req GuestOrderRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	guest, err := h.orders.PlaceGuestOrder(ctx, service.GuestOrderRequest{
		Guest: domain.GuestMetadata{
			GuestName:    req.GuestName,
			ContactPhone: req.ContactPhone,
			ContactEmail: req.ContactEmail,
			TableNumber:  req.TableNumber,
			Notes:        req.Notes,
		},
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		PromotionCode:       req.PromotionCode,
		Items:               toLineRequests(req.Items),
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertGuestOrder(guest))
}

// GET /api/v1/guest-orders/{id}
func (h *OrdersHandler) GetGuestOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	guest, err := h.orders.GetGuestOrder(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertGuestOrder(guest))
}

// GET /api/v1/guest-orders/lookup?code=ORD-000042
func (h *OrdersHandler) LookupGuestOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	guest, err := h.orders.LookupGuestOrder(ctx, r.URL.Query().Get("code"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertGuestOrder(guest))
}
