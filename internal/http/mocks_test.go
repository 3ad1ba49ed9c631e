package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MenuServiceMock struct {
	items   []*domain.MenuItem
	item    *domain.MenuItem
	err     error
	filter  domain.MenuFilter
	created *domain.MenuItem
	patch   domain.MenuItemPatch
}

func (m *MenuServiceMock) GetMenuItem(_ context.Context, id int64) (*domain.MenuItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.item == nil || m.item.ID != id {
		return nil, domain.NewNotFoundError("menu item", id)
	}
	return m.item, nil
}

func (m *MenuServiceMock) ListMenuItems(_ context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error) {
	m.filter = filter
	return m.items, m.err
}

func (m *MenuServiceMock) CreateMenuItem(_ context.Context, role domain.Role, item *domain.MenuItem) error {
	if err := role.Require(domain.RoleStaff); err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	item.ID = 7
	m.created = item
	return nil
}

func (m *MenuServiceMock) UpdateMenuItem(_ context.Context, role domain.Role, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	m.patch = patch
	item := *m.item
	patch.Apply(&item)
	return &item, nil
}

func (m *MenuServiceMock) DeleteMenuItem(_ context.Context, role domain.Role, _ int64) error {
	if err := role.Require(domain.RoleAdmin); err != nil {
		return err
	}
	return m.err
}

type OrderServiceMock struct {
	order    *domain.Order
	orders   []*domain.Order
	guest    *service.GuestOrder
	err      error
	placed   *service.PlaceOrderRequest
	filter   domain.OrderFilter
	change   domain.StatusChange
	tokenArg string
}

func (m *OrderServiceMock) PlaceOrder(_ context.Context, req service.PlaceOrderRequest) (*domain.Order, error) {
	m.placed = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) PlaceGuestOrder(_ context.Context, req service.GuestOrderRequest) (*service.GuestOrder, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func (m *OrderServiceMock) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	if m.order == nil || m.order.ID != id {
		return nil, domain.NewNotFoundError("order", id)
	}
	return m.order, nil
}

func (m *OrderServiceMock) GetOrderByTrackingToken(_ context.Context, token string) (*domain.Order, error) {
	m.tokenArg = token
	if m.order == nil || m.order.TrackingToken != token {
		return nil, domain.NewNotFoundError("order", token)
	}
	return m.order, nil
}

func (m *OrderServiceMock) ListOrders(_ context.Context, role domain.Role, filter domain.OrderFilter) ([]*domain.Order, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	m.filter = filter
	return m.orders, nil
}

func (m *OrderServiceMock) UpdateOrderStatus(_ context.Context, role domain.Role, _ int64, change domain.StatusChange) (*domain.Order, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	m.change = change
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *OrderServiceMock) GetGuestOrder(_ context.Context, id int64) (*service.GuestOrder, error) {
	if m.guest == nil || m.guest.Order.ID != id {
		return nil, domain.NewNotFoundError("guest order", id)
	}
	return m.guest, nil
}

func (m *OrderServiceMock) LookupGuestOrder(ctx context.Context, code string) (*service.GuestOrder, error) {
	id, err := domain.ParseGuestOrderCode(code)
	if err != nil {
		return nil, err
	}
	return m.GetGuestOrder(ctx, id)
}

type PromotionServiceMock struct {
	promos  []*domain.Promotion
	err     error
	created *domain.Promotion
}

func (m *PromotionServiceMock) CreatePromotion(_ context.Context, role domain.Role, p *domain.Promotion) error {
	if err := role.Require(domain.RoleStaff); err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	p.ID = 1
	m.created = p
	return nil
}

func (m *PromotionServiceMock) GetPromotion(_ context.Context, role domain.Role, id int64) (*domain.Promotion, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	for _, p := range m.promos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("promotion", id)
}

func (m *PromotionServiceMock) ListPromotions(_ context.Context, role domain.Role) ([]*domain.Promotion, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	return m.promos, nil
}

func (m *PromotionServiceMock) UpdatePromotion(_ context.Context, role domain.Role, id int64, patch domain.PromotionPatch) (*domain.Promotion, error) {
	p, err := m.GetPromotion(context.Background(), role, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	return p, nil
}

func (m *PromotionServiceMock) DeletePromotion(_ context.Context, role domain.Role, _ int64) error {
	return role.Require(domain.RoleAdmin)
}

type ReviewServiceMock struct {
	reviews []*domain.Review
	summary *domain.RatingSummary
	err     error
}

func (m *ReviewServiceMock) CreateReview(_ context.Context, review *domain.Review) error {
	if m.err != nil {
		return m.err
	}
	review.ID = "65f000000000000000000001"
	return nil
}

func (m *ReviewServiceMock) GetReview(_ context.Context, id string) (*domain.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.NewNotFoundError("review", id)
}

func (m *ReviewServiceMock) ListReviews(_ context.Context, _, _ int) ([]*domain.Review, error) {
	return m.reviews, m.err
}

func (m *ReviewServiceMock) ListMenuItemReviews(_ context.Context, _ int64, _, _ int) ([]*domain.Review, error) {
	return m.reviews, m.err
}

func (m *ReviewServiceMock) UpdateReview(ctx context.Context, id string, _ domain.ReviewPatch) (*domain.Review, error) {
	return m.GetReview(ctx, id)
}

func (m *ReviewServiceMock) DeleteReview(_ context.Context, role domain.Role, _ string) error {
	return role.Require(domain.RoleStaff)
}

func (m *ReviewServiceMock) RatingSummary(_ context.Context, _ int64) (*domain.RatingSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

type PaymentServiceMock struct {
	payment *domain.Payment
	err     error
	req     service.CreatePaymentRequest
	update  domain.PaymentUpdate
}

func (m *PaymentServiceMock) CreatePayment(_ context.Context, req service.CreatePaymentRequest) (*domain.Payment, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return m.payment, nil
}

func (m *PaymentServiceMock) GetPayment(_ context.Context, id int64) (*domain.Payment, error) {
	if m.payment == nil || m.payment.ID != id {
		return nil, domain.NewNotFoundError("payment", id)
	}
	return m.payment, nil
}

func (m *PaymentServiceMock) GetOrderPayment(_ context.Context, orderID int64) (*domain.Payment, error) {
	if m.payment == nil || m.payment.OrderID != orderID {
		return nil, domain.NewNotFoundError("payment", orderID)
	}
	return m.payment, nil
}

func (m *PaymentServiceMock) UpdatePayment(_ context.Context, role domain.Role, _ int64, update domain.PaymentUpdate) (*domain.Payment, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	m.update = update
	if m.err != nil {
		return nil, m.err
	}
	return m.payment, nil
}
