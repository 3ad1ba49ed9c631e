package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/repository"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	OrderID      int64
	PaymentType  domain.PaymentType
	CardType     string
	CardLastFour string
	Amount       decimal.Decimal
}

type PaymentService struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	log      *slog.Logger
}

func NewPaymentService(payments repository.PaymentRepository, orders repository.OrderRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{payments: payments, orders: orders, log: log}
}

func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.Equal(order.TotalPrice) {
		return nil, domain.NewValidationError("amount", "must equal the order total %s", order.TotalPrice.StringFixed(2))
	}

	payment := &domain.Payment{
		OrderID:      req.OrderID,
		PaymentType:  req.PaymentType,
		CardType:     strings.TrimSpace(req.CardType),
		CardLastFour: req.CardLastFour,
		Amount:       order.TotalPrice,
		Status:       domain.PaymentStatusPending,
	}
	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "payment created", "payment_id", payment.ID, "order_id", payment.OrderID, "type", payment.PaymentType)
	return payment, nil
}

func validatePaymentRequest(req CreatePaymentRequest) error {
	switch {
	case req.OrderID <= 0:
		return domain.NewValidationError("order_id", "must be a positive id")
	case !req.PaymentType.IsValid():
		return domain.NewValidationError("payment_type", "must be one of credit_card, debit_card, paypal, cash")
	case !req.Amount.IsPositive():
		return domain.NewValidationError("amount", "must be greater than zero")
	case len(req.CardType) > 20:
		return domain.NewValidationError("card_type", "must be at most 20 characters")
	}

	if !req.PaymentType.IsCard() {
		if req.CardType != "" || req.CardLastFour != "" {
			return domain.NewValidationError("card_last_four", "card fields are only accepted for card payments")
		}
		return nil
	}
	if len(req.CardLastFour) != 4 || strings.Trim(req.CardLastFour, "0123456789") != "" {
		return domain.NewValidationError("card_last_four", "must be exactly 4 digits")
	}
	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

func (s *PaymentService) GetOrderPayment(ctx context.Context, orderID int64) (*domain.Payment, error) {
	return s.payments.GetPaymentByOrderID(ctx, orderID)
}

func (s *PaymentService) UpdatePayment(ctx context.Context, role domain.Role, id int64, update domain.PaymentUpdate) (*domain.Payment, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown payment status %q", *update.Status)
	}
	if update.TransactionID != nil && len(*update.TransactionID) > 100 {
		return nil, domain.NewValidationError("transaction_id", "must be at most 100 characters")
	}

	payment, err := s.payments.UpdatePayment(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "payment updated", "payment_id", id, "status", payment.Status)
	return payment, nil
}
