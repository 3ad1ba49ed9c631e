package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestCustomerID marks an order placed without a customer account.
const GuestCustomerID int64 = 0

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "PLACED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok || s.IsTerminal()
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// LineRequest is one requested (item, quantity) pair before pricing.
type LineRequest struct {
	MenuItemID      int64
	Quantity        int
	SpecialRequests string
}

type OrderLine struct {
	ID              int64           `json:"id"`
	MenuItemID      int64           `json:"menu_item_id"`
	ItemName        string          `json:"item_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineSubtotal    decimal.Decimal `json:"line_subtotal"`
	SpecialRequests string          `json:"special_requests,omitempty"`
}

type Order struct {
	ID                    int64
	CustomerID            int64
	DeliveryAddress       string
	SpecialInstructions   string
	Metadata              string
	TrackingToken         string
	Status                OrderStatus
	Subtotal              decimal.Decimal
	TaxAmount             decimal.Decimal
	DiscountAmount        decimal.Decimal
	TotalPrice            decimal.Decimal
	PromotionID           *int64
	PromotionCode         string
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Lines                 []OrderLine
}

func (o *Order) IsGuest() bool {
	return o.CustomerID == GuestCustomerID
}

type OrderFilter struct {
	Status OrderStatus
	Skip   int
	Limit  int
}

// StatusChange is a staff-driven update of an order's lifecycle fields.
type StatusChange struct {
	Status                OrderStatus
	EstimatedDeliveryTime *time.Time
}
