package http

import (
	"context"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/service"
)

// The handlers depend on these narrow views of the services so tests can
// swap in fakes.

type MenuService interface {
	GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, role domain.Role, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, role domain.Role, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, role domain.Role, id int64) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*domain.Order, error)
	PlaceGuestOrder(ctx context.Context, req service.GuestOrderRequest) (*service.GuestOrder, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error)
	ListOrders(ctx context.Context, role domain.Role, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, role domain.Role, id int64, change domain.StatusChange) (*domain.Order, error)
	GetGuestOrder(ctx context.Context, id int64) (*service.GuestOrder, error)
	LookupGuestOrder(ctx context.Context, code string) (*service.GuestOrder, error)
}

type PromotionService interface {
	CreatePromotion(ctx context.Context, role domain.Role, p *domain.Promotion) error
	GetPromotion(ctx context.Context, role domain.Role, id int64) (*domain.Promotion, error)
	ListPromotions(ctx context.Context, role domain.Role) ([]*domain.Promotion, error)
	UpdatePromotion(ctx context.Context, role domain.Role, id int64, patch domain.PromotionPatch) (*domain.Promotion, error)
	DeletePromotion(ctx context.Context, role domain.Role, id int64) error
}

type ReviewService interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	ListReviews(ctx context.Context, skip, limit int) ([]*domain.Review, error)
	ListMenuItemReviews(ctx context.Context, menuItemID int64, skip, limit int) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error)
	DeleteReview(ctx context.Context, role domain.Role, id string) error
	RatingSummary(ctx context.Context, menuItemID int64) (*domain.RatingSummary, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, req service.CreatePaymentRequest) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	GetOrderPayment(ctx context.Context, orderID int64) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, role domain.Role, id int64, update domain.PaymentUpdate) (*domain.Payment, error)
}
