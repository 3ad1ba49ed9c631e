package repository

import (
	"context"
	"fmt"

	"github.com/fjod/sandwich_shop/internal/domain"
)

var (
	ErrMenuItemNotFound       = &domain.NotFoundError{Resource: "menu item"}
	ErrOrderNotFound          = &domain.NotFoundError{Resource: "order"}
	ErrPromotionNotFound      = &domain.NotFoundError{Resource: "promotion"}
	ErrPaymentNotFound        = &domain.NotFoundError{Resource: "payment"}
	ErrReviewNotFound         = &domain.NotFoundError{Resource: "review"}
	ErrDuplicateTrackingToken = fmt.Errorf("tracking token already in use: %w", domain.ErrConflict)
	ErrDuplicatePromotionCode = fmt.Errorf("promotion code already exists: %w", domain.ErrConflict)
	ErrPaymentExists          = fmt.Errorf("order already has a payment: %w", domain.ErrConflict)
	ErrMenuItemInUse          = fmt.Errorf("menu item is referenced by orders, deactivate it instead: %w", domain.ErrConflict)
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
	MaxConns          int32
	MinConns          int32
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	GetMenuItemsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, change domain.StatusChange) (*domain.Order, error)
}

type PromotionRepository interface {
	CreatePromotion(ctx context.Context, promo *domain.Promotion) error
	GetPromotionByID(ctx context.Context, id int64) (*domain.Promotion, error)
	GetPromotionByCode(ctx context.Context, code string) (*domain.Promotion, error)
	ListPromotions(ctx context.Context) ([]*domain.Promotion, error)
	UpdatePromotion(ctx context.Context, id int64, patch domain.PromotionPatch) (*domain.Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, id int64, update domain.PaymentUpdate) (*domain.Payment, error)
}

type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	ListReviews(ctx context.Context, skip, limit int) ([]*domain.Review, error)
	ListReviewsByMenuItem(ctx context.Context, menuItemID int64, skip, limit int) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
	RatingSummary(ctx context.Context, menuItemID int64) (*domain.RatingSummary, error)
}
