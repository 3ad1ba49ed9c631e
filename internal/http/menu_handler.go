package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
)

type MenuHandler struct {
	menu    MenuService
	timeout time.Duration
	log     *slog.Logger
}

func NewMenuHandler(menu MenuService, timeout time.Duration, log *slog.Logger) *MenuHandler {
	return &MenuHandler{
		menu:    menu,
		timeout: timeout,
		log:     log,
	}
}

// GET /api/v1/menu-items
func (h *MenuHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	filter := domain.MenuFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
	if raw := q.Get("vegetarian"); raw != "" {
		veg, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "vegetarian must be true or false")
			return
		}
		filter.Vegetarian = &veg
	}
	if raw := q.Get("include_inactive"); raw != "" {
		inactive, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "include_inactive must be true or false")
			return
		}
		filter.IncludeInactive = inactive
	}

	items, err := h.menu.ListMenuItems(ctx, filter)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertMenuItems(items))
}

// GET /api/v1/menu-items/{id}
func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.menu.GetMenuItem(ctx, id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertMenuItem(item))
}

// POST /api/v1/menu-items
func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item := &domain.MenuItem{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Calories:     req.Calories,
		Category:     req.Category,
		IsVegetarian: req.IsVegetarian,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.menu.CreateMenuItem(ctx, roleFromContext(r.Context()), item); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertMenuItem(item))
}

// PUT /api/v1/menu-items/{id}
func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.menu.UpdateMenuItem(ctx, roleFromContext(r.Context()), id, domain.MenuItemPatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Calories:     req.Calories,
		Category:     req.Category,
		IsVegetarian: req.IsVegetarian,
		IsActive:     req.IsActive,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, convertMenuItem(item))
}

// DELETE /api/v1/menu-items/{id}
func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.menu.DeleteMenuItem(ctx, roleFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
