package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/pricing"
	"github.com/fjod/sandwich_shop/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	trackingTokenPrefix = "TRK-"
	maxTokenAttempts    = 3
	defaultGuestName    = "Guest"
)

type PlaceOrderRequest struct {
	CustomerID          int64
	DeliveryAddress     string
	SpecialInstructions string
	PromotionCode       string
	Items               []domain.LineRequest
}

type GuestOrderRequest struct {
	Guest               domain.GuestMetadata
	DeliveryAddress     string
	SpecialInstructions string
	PromotionCode       string
	Items               []domain.LineRequest
}

// GuestOrder is an order together with its public code and decoded contact fields.
type GuestOrder struct {
	Order *domain.Order
	Code  string
	Guest domain.GuestMetadata
}

// NewTrackingToken returns "TRK-" followed by the 32 hex digits of a random UUID.
func NewTrackingToken() string {
	return trackingTokenPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

type OrderService struct {
	menu     repository.MenuRepository
	orders   repository.OrderRepository
	promos   repository.PromotionRepository
	taxRate  decimal.Decimal
	now      func() time.Time
	newToken func() string
	log      *slog.Logger
}

type OrderOption func(*OrderService)

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func WithTokenGenerator(gen func() string) OrderOption {
	return func(s *OrderService) { s.newToken = gen }
}

func NewOrderService(
	menu repository.MenuRepository,
	orders repository.OrderRepository,
	promos repository.PromotionRepository,
	taxRate decimal.Decimal,
	log *slog.Logger,
	opts ...OrderOption,
) *OrderService {
	s := &OrderService{
		menu:     menu,
		orders:   orders,
		promos:   promos,
		taxRate:  taxRate,
		now:      time.Now,
		newToken: NewTrackingToken,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.CustomerID <= 0 {
		return nil, domain.NewValidationError("customer_id", "must be a positive id")
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if len(address) < 5 || len(address) > 255 {
		return nil, domain.NewValidationError("delivery_address", "must be between 5 and 255 characters")
	}
	if len(req.SpecialInstructions) > 500 {
		return nil, domain.NewValidationError("special_instructions", "must be at most 500 characters")
	}

	order := &domain.Order{
		CustomerID:          req.CustomerID,
		DeliveryAddress:     address,
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := s.assemble(ctx, order, req.Items, req.PromotionCode); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) PlaceGuestOrder(ctx context.Context, req GuestOrderRequest) (*GuestOrder, error) {
	guest := req.Guest
	guest.GuestName = strings.TrimSpace(guest.GuestName)
	if guest.GuestName == "" {
		guest.GuestName = defaultGuestName
	}
	if guest.TableNumber != nil && *guest.TableNumber <= 0 {
		return nil, domain.NewValidationError("table_number", "must be a positive number")
	}
	if len(guest.Notes) > 1000 {
		return nil, domain.NewValidationError("notes", "must be at most 1000 characters")
	}

	// Dine-in guests may leave the address empty.
	address := strings.TrimSpace(req.DeliveryAddress)
	if len(address) > 255 {
		return nil, domain.NewValidationError("delivery_address", "must be at most 255 characters")
	}
	if len(req.SpecialInstructions) > 500 {
		return nil, domain.NewValidationError("special_instructions", "must be at most 500 characters")
	}

	blob, err := domain.EncodeGuestMetadata(guest)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerID:          domain.GuestCustomerID,
		DeliveryAddress:     address,
		SpecialInstructions: req.SpecialInstructions,
		Metadata:            blob,
	}
	if err := s.assemble(ctx, order, req.Items, req.PromotionCode); err != nil {
		return nil, err
	}
	return toGuestOrder(order), nil
}

// assemble prices the lines, applies the promotion and persists the order.
// Nothing is written unless every check passes.
func (s *OrderService) assemble(ctx context.Context, order *domain.Order, items []domain.LineRequest, promoCode string) error {
	if err := pricing.ValidateLines(items); err != nil {
		return err
	}

	catalog, err := s.menu.GetMenuItemsByIDs(ctx, pricing.MenuItemIDs(items))
	if err != nil {
		return fmt.Errorf("load menu items: %w", err)
	}

	priced, err := pricing.PriceLines(items, catalog)
	if err != nil {
		return err
	}

	discount := decimal.Zero
	if code := strings.TrimSpace(promoCode); code != "" {
		promo, err := s.promos.GetPromotionByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := pricing.CheckPromotion(promo, s.now()); err != nil {
			return err
		}
		discount, err = pricing.CalculateDiscount(promo, priced.Subtotal)
		if err != nil {
			return err
		}
		order.PromotionID = &promo.ID
		order.PromotionCode = promo.Code
	}

	tax := pricing.Tax(priced.Subtotal, s.taxRate)

	order.Status = domain.OrderStatusPlaced
	order.Lines = priced.Lines
	order.Subtotal = priced.Subtotal
	order.TaxAmount = tax
	order.DiscountAmount = discount
	order.TotalPrice = pricing.Total(priced.Subtotal, tax, discount)
	if err := pricing.CheckAmount("total_price", order.TotalPrice); err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		order.TrackingToken = s.newToken()
		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateTrackingToken) || attempt == maxTokenAttempts {
			break
		}
		s.log.WarnContext(ctx, "tracking token collision, regenerating", "attempt", attempt)
	}
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.TotalPrice.StringFixed(2),
		"promotion", order.PromotionCode)
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}

func (s *OrderService) GetOrderByTrackingToken(ctx context.Context, token string) (*domain.Order, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return nil, domain.NewValidationError("token", "must not be empty")
	}
	return s.orders.GetOrderByTrackingToken(ctx, token)
}

func (s *OrderService) ListOrders(ctx context.Context, role domain.Role, filter domain.OrderFilter) ([]*domain.Order, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown order status %q", filter.Status)
	}
	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)
	return s.orders.ListOrders(ctx, filter)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, role domain.Role, id int64, change domain.StatusChange) (*domain.Order, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	if !change.Status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown order status %q", change.Status)
	}

	order, err := s.orders.UpdateOrderStatus(ctx, id, change)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "order status updated", "order_id", id, "status", order.Status)
	return order, nil
}

// GetGuestOrder hides customer orders behind a not-found.
func (s *OrderService) GetGuestOrder(ctx context.Context, id int64) (*GuestOrder, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsGuest() {
		return nil, domain.NewNotFoundError("guest order", id)
	}
	return toGuestOrder(order), nil
}

func (s *OrderService) LookupGuestOrder(ctx context.Context, code string) (*GuestOrder, error) {
	id, err := domain.ParseGuestOrderCode(code)
	if err != nil {
		return nil, err
	}
	return s.GetGuestOrder(ctx, id)
}

func toGuestOrder(order *domain.Order) *GuestOrder {
	return &GuestOrder{
		Order: order,
		Code:  domain.FormatGuestOrderCode(order.ID),
		Guest: domain.DecodeGuestMetadata(order.Metadata),
	}
}
