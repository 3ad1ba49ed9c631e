package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/service"
)

type PaymentsHandler struct {
	payments PaymentService
	timeout  time.Duration
	log      *slog.Logger
}

func NewPaymentsHandler(payments PaymentService, timeout time.Duration, log *slog.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		payments: payments,
		timeout:  timeout,
		log:      log,
	}
}

// POST /api/v1/payments
func (h *PaymentsHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payment, err := h.payments.CreatePayment(ctx, service.CreatePaymentRequest{
		OrderID:      req.OrderID,
		PaymentType:  domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType))),
		CardType:     req.CardType,
		CardLastFour: req.CardLastFour,
		Amount:       req.Amount,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertPayment(payment))
}

// GET /api/v1/payments/{id}
func (h *PaymentsHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payment, err := h.payments.GetPayment(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertPayment(payment))
}

// PATCH /api/v1/payments/{id}
func (h *PaymentsHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	update := domain.PaymentUpdate{TransactionID: req.TransactionID}
	if req.Status != nil {
		status := domain.PaymentStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		update.Status = &status
	}

	payment, err := h.payments.UpdatePayment(ctx, roleFromContext(r.Context()), id, update)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertPayment(payment))
}
