package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
)

type PromotionsHandler struct {
	promos  PromotionService
	timeout time.Duration
	log     *slog.Logger
}

func NewPromotionsHandler(promos PromotionService, timeout time.Duration, log *slog.Logger) *PromotionsHandler {
	return &PromotionsHandler{
		promos:  promos,
		timeout: timeout,
		log:     log,
	}
}

// POST /api/v1/promotions
func (h *PromotionsHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req CreatePromotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promo := &domain.Promotion{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      domain.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType))),
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		IsActive:          req.IsActive == nil || *req.IsActive,
		StartDate:         req.StartDate,
		ExpirationDate:    req.ExpirationDate,
	}
	if err := h.promos.CreatePromotion(ctx, roleFromContext(r.Context()), promo); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertPromotion(promo))
}

// GET /api/v1/promotions
func (h *PromotionsHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promos, err := h.promos.ListPromotions(ctx, roleFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	dtos := make([]PromotionDTO, 0, len(promos))
	for _, p := range promos {
		dtos = append(dtos, convertPromotion(p))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/promotions/{id}
func (h *PromotionsHandler) GetPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promo, err := h.promos.GetPromotion(ctx, roleFromContext(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertPromotion(promo))
}

// PATCH /api/v1/promotions/{id}
func (h *PromotionsHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePromotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	promo, err := h.promos.UpdatePromotion(ctx, roleFromContext(r.Context()), id, domain.PromotionPatch{
		Description:       req.Description,
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		IsActive:          req.IsActive,
		ExpirationDate:    req.ExpirationDate,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertPromotion(promo))
}

// DELETE /api/v1/promotions/{id}
func (h *PromotionsHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.promos.DeletePromotion(ctx, roleFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
