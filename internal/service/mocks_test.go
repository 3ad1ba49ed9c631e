package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/sandwich_shop/internal/cache"
	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockMenuRepository implements repository.MenuRepository for testing
type MockMenuRepository struct {
	m          sync.Mutex
	Items      map[int64]*domain.MenuItem
	Err        error
	Block      chan struct{} // GetMenuItem waits on it when set
	GetCalls   int
	BatchCalls int
	ListCalls  int
	Deleted    []int64
}

func (m *MockMenuRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.Items == nil {
		m.Items = map[int64]*domain.MenuItem{}
	}
	item.ID = int64(len(m.Items) + 1)
	m.Items[item.ID] = item
	return nil
}

func (m *MockMenuRepository) GetMenuItem(_ context.Context, id int64) (*domain.MenuItem, error) {
	if m.Block != nil {
		<-m.Block
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.GetCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.NewNotFoundError("menu item", id)
	}
	return item, nil
}

func (m *MockMenuRepository) GetMenuItemsByIDs(_ context.Context, ids []int64) (map[int64]*domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.BatchCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	found := make(map[int64]*domain.MenuItem)
	for _, id := range ids {
		if item, ok := m.Items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func (m *MockMenuRepository) ListMenuItems(_ context.Context, _ domain.MenuFilter) ([]*domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	items := make([]*domain.MenuItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, item)
	}
	return items, nil
}

func (m *MockMenuRepository) UpdateMenuItem(_ context.Context, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.NewNotFoundError("menu item", id)
	}
	patch.Apply(item)
	return item, nil
}

func (m *MockMenuRepository) DeleteMenuItem(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, id)
	delete(m.Items, id)
	return nil
}

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	m           sync.Mutex
	Orders      map[int64]*domain.Order
	CreateErrs  []error // consumed one per CreateOrder call
	Created     []*domain.Order
	Tokens      []string
	ListFilter  *domain.OrderFilter
	StatusCalls int
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Tokens = append(m.Tokens, order.TrackingToken)
	if len(m.CreateErrs) > 0 {
		err := m.CreateErrs[0]
		m.CreateErrs = m.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	if m.Orders == nil {
		m.Orders = map[int64]*domain.Order{}
	}
	order.ID = int64(len(m.Orders) + 1)
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	m.Orders[order.ID] = order
	m.Created = append(m.Created, order)
	return nil
}

func (m *MockOrderRepository) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}
	return order, nil
}

func (m *MockOrderRepository) GetOrderByTrackingToken(_ context.Context, token string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, order := range m.Orders {
		if order.TrackingToken == token {
			return order, nil
		}
	}
	return nil, domain.NewNotFoundError("order", token)
}

func (m *MockOrderRepository) ListOrders(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.ListFilter = &filter
	return []*domain.Order{}, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(_ context.Context, id int64, change domain.StatusChange) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.StatusCalls++
	order, ok := m.Orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}
	if !order.Status.CanTransitionTo(change.Status) {
		return nil, &domain.IllegalTransitionError{Entity: "order", From: string(order.Status), To: string(change.Status)}
	}
	order.Status = change.Status
	return order, nil
}

// MockPromotionRepository implements repository.PromotionRepository for testing
type MockPromotionRepository struct {
	m       sync.Mutex
	ByCode  map[string]*domain.Promotion
	Err     error
	Created []*domain.Promotion
	Deleted []int64
}

func (m *MockPromotionRepository) CreatePromotion(_ context.Context, p *domain.Promotion) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p.ID = int64(len(m.Created) + 1)
	m.Created = append(m.Created, p)
	return nil
}

func (m *MockPromotionRepository) GetPromotionByID(_ context.Context, id int64) (*domain.Promotion, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, p := range m.ByCode {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("promotion", id)
}

func (m *MockPromotionRepository) GetPromotionByCode(_ context.Context, code string) (*domain.Promotion, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.ByCode[repository.NormalizePromotionCode(code)]
	if !ok {
		return nil, domain.NewNotFoundError("promotion", code)
	}
	return p, nil
}

func (m *MockPromotionRepository) ListPromotions(context.Context) ([]*domain.Promotion, error) {
	return []*domain.Promotion{}, nil
}

func (m *MockPromotionRepository) UpdatePromotion(_ context.Context, id int64, patch domain.PromotionPatch) (*domain.Promotion, error) {
	p, err := m.GetPromotionByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	return p, p.Validate()
}

func (m *MockPromotionRepository) DeletePromotion(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Deleted = append(m.Deleted, id)
	return nil
}

// MockPaymentRepository implements repository.PaymentRepository for testing
type MockPaymentRepository struct {
	Created   *domain.Payment
	CreateErr error
	Updated   bool
}

func (m *MockPaymentRepository) CreatePayment(_ context.Context, p *domain.Payment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	p.ID = 1
	m.Created = p
	return nil
}

func (m *MockPaymentRepository) GetPayment(_ context.Context, id int64) (*domain.Payment, error) {
	if m.Created == nil || m.Created.ID != id {
		return nil, domain.NewNotFoundError("payment", id)
	}
	return m.Created, nil
}

func (m *MockPaymentRepository) GetPaymentByOrderID(_ context.Context, orderID int64) (*domain.Payment, error) {
	if m.Created == nil || m.Created.OrderID != orderID {
		return nil, repository.ErrPaymentNotFound
	}
	return m.Created, nil
}

func (m *MockPaymentRepository) UpdatePayment(_ context.Context, id int64, update domain.PaymentUpdate) (*domain.Payment, error) {
	p, err := m.GetPayment(context.Background(), id)
	if err != nil {
		return nil, err
	}
	m.Updated = true
	if update.Status != nil {
		p.Status = *update.Status
	}
	return p, nil
}

// MockReviewRepository implements repository.ReviewRepository for testing
type MockReviewRepository struct {
	Reviews   []*domain.Review
	LastSkip  int
	LastLimit int
}

func (m *MockReviewRepository) CreateReview(_ context.Context, review *domain.Review) error {
	review.ID = "65f000000000000000000001"
	m.Reviews = append(m.Reviews, review)
	return nil
}

func (m *MockReviewRepository) GetReview(_ context.Context, id string) (*domain.Review, error) {
	for _, r := range m.Reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.NewNotFoundError("review", id)
}

func (m *MockReviewRepository) ListReviews(_ context.Context, skip, limit int) ([]*domain.Review, error) {
	m.LastSkip, m.LastLimit = skip, limit
	return m.Reviews, nil
}

func (m *MockReviewRepository) ListReviewsByMenuItem(_ context.Context, _ int64, skip, limit int) ([]*domain.Review, error) {
	m.LastSkip, m.LastLimit = skip, limit
	return m.Reviews, nil
}

func (m *MockReviewRepository) UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	r, err := m.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	return r, nil
}

func (m *MockReviewRepository) DeleteReview(context.Context, string) error {
	return nil
}

func (m *MockReviewRepository) RatingSummary(_ context.Context, menuItemID int64) (*domain.RatingSummary, error) {
	return &domain.RatingSummary{MenuItemID: menuItemID, AverageRating: 4.5, ReviewCount: int64(len(m.Reviews))}, nil
}

// MockCache implements cache.MenuCache for testing
type MockCache struct {
	m           sync.Mutex
	Items       map[int64]*domain.MenuItem
	Lists       map[string][]*domain.MenuItem
	Err         error
	Invalidated []int64
}

func (m *MockCache) GetItem(_ context.Context, id int64) (*domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	item, ok := m.Items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return item, nil
}

func (m *MockCache) SetItem(_ context.Context, item *domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Items == nil {
		m.Items = map[int64]*domain.MenuItem{}
	}
	m.Items[item.ID] = item
	return m.Err
}

func (m *MockCache) GetList(_ context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	items, ok := m.Lists[cache.ListKey(filter)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return items, nil
}

func (m *MockCache) SetList(_ context.Context, filter domain.MenuFilter, items []*domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Lists == nil {
		m.Lists = map[string][]*domain.MenuItem{}
	}
	m.Lists[cache.ListKey(filter)] = items
	return m.Err
}

func (m *MockCache) Invalidate(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Invalidated = append(m.Invalidated, id)
	delete(m.Items, id)
	m.Lists = nil
	return nil
}
