package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ReviewsHandler struct {
	reviews ReviewService
	timeout time.Duration
	log     *slog.Logger
}

func NewReviewsHandler(reviews ReviewService, timeout time.Duration, log *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		reviews: reviews,
		timeout: timeout,
		log:     log,
	}
}

// GET /api/v1/reviews
func (h *ReviewsHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviews.ListReviews(ctx, skip, limit)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNilReviews(reviews))
}

// GET /api/v1/menu-items/{id}/reviews
func (h *ReviewsHandler) ListMenuItemReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviews.ListMenuItemReviews(ctx, id, skip, limit)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNilReviews(reviews))
}

// GET /api/v1/menu-items/{id}/rating
func (h *ReviewsHandler) RatingSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summary, err := h.reviews.RatingSummary(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// POST /api/v1/reviews
func (h *ReviewsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	review := &domain.Review{
		CustomerID: req.CustomerID,
		MenuItemID: req.MenuItemID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := h.reviews.CreateReview(ctx, review); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

// GET /api/v1/reviews/{id}
func (h *ReviewsHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	review, err := h.reviews.GetReview(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, review)
}

// PATCH /api/v1/reviews/{id}
func (h *ReviewsHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	review, err := h.reviews.UpdateReview(ctx, chi.URLParam(r, "id"), domain.ReviewPatch{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, review)
}

// DELETE /api/v1/reviews/{id}
func (h *ReviewsHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.reviews.DeleteReview(ctx, roleFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func nonNilReviews(reviews []*domain.Review) []*domain.Review {
	if reviews == nil {
		return make([]*domain.Review, 0)
	}
	return reviews
}
