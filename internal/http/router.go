package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/sandwich_shop/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Menu       MenuService
	Orders     OrderService
	Promotions PromotionService
	Payments   PaymentService
	// Reviews may be nil when no review store is configured.
	Reviews ReviewService
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(svc Services, cfg RouterConfig, log *slog.Logger) http.Handler {
	menuHandler := NewMenuHandler(svc.Menu, cfg.RequestTimeout, log)
	ordersHandler := NewOrdersHandler(svc.Orders, svc.Payments, cfg.RequestTimeout, log)
	promotionsHandler := NewPromotionsHandler(svc.Promotions, cfg.RequestTimeout, log)
	paymentsHandler := NewPaymentsHandler(svc.Payments, cfg.RequestTimeout, log)

	itemReviews, itemRating := http.HandlerFunc(reviewsDisabled), http.HandlerFunc(reviewsDisabled)
	var reviewsHandler *ReviewsHandler
	if svc.Reviews != nil {
		reviewsHandler = NewReviewsHandler(svc.Reviews, cfg.RequestTimeout, log)
		itemReviews, itemRating = reviewsHandler.ListMenuItemReviews, reviewsHandler.RatingSummary
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RoleMiddleware)

		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", menuHandler.ListMenuItems)
			r.Post("/", menuHandler.CreateMenuItem)
			r.Get("/{id}", menuHandler.GetMenuItem)
			r.Put("/{id}", menuHandler.UpdateMenuItem)
			r.Delete("/{id}", menuHandler.DeleteMenuItem)
			r.Get("/{id}/reviews", itemReviews)
			r.Get("/{id}/rating", itemRating)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Post("/", ordersHandler.PlaceOrder)
			r.Get("/tracking/{token}", ordersHandler.TrackOrder)
			r.Get("/{id}", ordersHandler.GetOrder)
			r.Patch("/{id}/status", ordersHandler.UpdateOrderStatus)
			r.Get("/{id}/payment", ordersHandler.GetOrderPayment)
		})

		r.Route("/guest-orders", func(r chi.Router) {
			r.Post("/", ordersHandler.PlaceGuestOrder)
			r.Get("/lookup", ordersHandler.LookupGuestOrder)
			r.Get("/{id}", ordersHandler.GetGuestOrder)
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", promotionsHandler.ListPromotions)
			r.Post("/", promotionsHandler.CreatePromotion)
			r.Get("/{id}", promotionsHandler.GetPromotion)
			r.Patch("/{id}", promotionsHandler.UpdatePromotion)
			r.Delete("/{id}", promotionsHandler.DeletePromotion)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", paymentsHandler.CreatePayment)
			r.Get("/{id}", paymentsHandler.GetPayment)
			r.Patch("/{id}", paymentsHandler.UpdatePayment)
		})

		if reviewsHandler == nil {
			r.HandleFunc("/reviews", reviewsDisabled)
			r.HandleFunc("/reviews/*", reviewsDisabled)
			return
		}
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewsHandler.ListReviews)
			r.Post("/", reviewsHandler.CreateReview)
			r.Get("/{id}", reviewsHandler.GetReview)
			r.Patch("/{id}", reviewsHandler.UpdateReview)
			r.Delete("/{id}", reviewsHandler.DeleteReview)
		})
	})

	return r
}

func reviewsDisabled(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusServiceUnavailable, "reviews_disabled", "review store is not configured")
}
