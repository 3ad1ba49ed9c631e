package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339

type MenuItemDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	Calories     *int   `json:"calories,omitempty"`
	Category     string `json:"category"`
	IsVegetarian bool   `json:"is_vegetarian"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type CreateMenuItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Calories     *int            `json:"calories"`
	Category     string          `json:"category"`
	IsVegetarian bool            `json:"is_vegetarian"`
	IsActive     *bool           `json:"is_active"`
}

type UpdateMenuItemRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Calories     *int             `json:"calories"`
	Category     *string          `json:"category"`
	IsVegetarian *bool            `json:"is_vegetarian"`
	IsActive     *bool            `json:"is_active"`
}

type OrderLineRequestDTO struct {
	MenuItemID      int64  `json:"menu_item_id"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"special_requests"`
}

type PlaceOrderRequestDTO struct {
	CustomerID          int64                 `json:"customer_id"`
	DeliveryAddress     string                `json:"delivery_address"`
	SpecialInstructions string                `json:"special_instructions"`
	PromotionCode       string                `json:"promotion_code"`
	Items               []OrderLineRequestDTO `json:"items"`
}

type GuestOrderRequestDTO struct {
	GuestName           string                `json:"guest_name"`
	ContactPhone        string                `json:"contact_phone"`
	ContactEmail        string                `json:"contact_email"`
	TableNumber         *int                  `json:"table_number"`
	Notes               string                `json:"notes"`
	DeliveryAddress     string                `json:"delivery_address"`
	SpecialInstructions string                `json:"special_instructions"`
	PromotionCode       string                `json:"promotion_code"`
	Items               []OrderLineRequestDTO `json:"items"`
}

type OrderLineDTO struct {
	ID              int64  `json:"id"`
	MenuItemID      int64  `json:"menu_item_id"`
	ItemName        string `json:"item_name"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	LineSubtotal    string `json:"line_subtotal"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type OrderDTO struct {
	ID                    int64          `json:"id"`
	CustomerID            int64          `json:"customer_id"`
	TrackingToken         string         `json:"tracking_token"`
	Status                string         `json:"status"`
	DeliveryAddress       string         `json:"delivery_address"`
	SpecialInstructions   string         `json:"special_instructions,omitempty"`
	Subtotal              string         `json:"subtotal"`
	TaxAmount             string         `json:"tax_amount"`
	DiscountAmount        string         `json:"discount_amount"`
	TotalPrice            string         `json:"total_price"`
	PromotionCode         string         `json:"promotion_code,omitempty"`
	EstimatedDeliveryTime *string        `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *string        `json:"actual_delivery_time,omitempty"`
	Items                 []OrderLineDTO `json:"items"`
	CreatedAt             string         `json:"created_at"`
	UpdatedAt             string         `json:"updated_at"`
}

type GuestOrderDTO struct {
	OrderDTO
	Code         string `json:"code"`
	GuestName    string `json:"guest_name"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	TableNumber  *int   `json:"table_number,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type StatusUpdateRequest struct {
	Status                string     `json:"status"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
}

type PromotionDTO struct {
	ID                int64   `json:"id"`
	Code              string  `json:"code"`
	Description       string  `json:"description,omitempty"`
	DiscountType      string  `json:"discount_type"`
	DiscountValue     string  `json:"discount_value"`
	MinOrderAmount    string  `json:"min_order_amount"`
	MaxDiscountAmount *string `json:"max_discount_amount,omitempty"`
	UsageLimit        *int    `json:"usage_limit,omitempty"`
	UsageCount        int     `json:"usage_count"`
	IsActive          bool    `json:"is_active"`
	StartDate         string  `json:"start_date"`
	ExpirationDate    string  `json:"expiration_date"`
	CreatedAt         string  `json:"created_at"`
}

type CreatePromotionRequest struct {
	Code              string           `json:"code"`
	Description       string           `json:"description"`
	DiscountType      string           `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MinOrderAmount    decimal.Decimal  `json:"min_order_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	UsageLimit        *int             `json:"usage_limit"`
	IsActive          *bool            `json:"is_active"`
	StartDate         time.Time        `json:"start_date"`
	ExpirationDate    time.Time        `json:"expiration_date"`
}

type UpdatePromotionRequest struct {
	Description       *string          `json:"description"`
	DiscountValue     *decimal.Decimal `json:"discount_value"`
	MinOrderAmount    *decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	UsageLimit        *int             `json:"usage_limit"`
	IsActive          *bool            `json:"is_active"`
	ExpirationDate    *time.Time       `json:"expiration_date"`
}

type CreateReviewRequest struct {
	CustomerID int64   `json:"customer_id"`
	MenuItemID int64   `json:"menu_item_id"`
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text"`
}

type UpdateReviewRequest struct {
	Rating     *float64 `json:"rating"`
	ReviewText *string  `json:"review_text"`
}

type PaymentDTO struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	PaymentType   string `json:"payment_type"`
	CardType      string `json:"card_type,omitempty"`
	CardLastFour  string `json:"card_last_four,omitempty"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreatePaymentRequestDTO struct {
	OrderID      int64           `json:"order_id"`
	PaymentType  string          `json:"payment_type"`
	CardType     string          `json:"card_type"`
	CardLastFour string          `json:"card_last_four"`
	Amount       decimal.Decimal `json:"amount"`
}

type UpdatePaymentRequest struct {
	Status        *string `json:"status"`
	TransactionID *string `json:"transaction_id"`
}

func convertMenuItem(m *domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price.StringFixed(2),
		Calories:     m.Calories,
		Category:     m.Category,
		IsVegetarian: m.IsVegetarian,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.Format(timeLayout),
		UpdatedAt:    m.UpdatedAt.Format(timeLayout),
	}
}

func convertMenuItems(items []*domain.MenuItem) []MenuItemDTO {
	dtos := make([]MenuItemDTO, 0, len(items))
	for _, m := range items {
		dtos = append(dtos, convertMenuItem(m))
	}
	return dtos
}

func convertOrder(o *domain.Order) OrderDTO {
	lines := make([]OrderLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineDTO{
			ID:              l.ID,
			MenuItemID:      l.MenuItemID,
			ItemName:        l.ItemName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			LineSubtotal:    l.LineSubtotal.StringFixed(2),
			SpecialRequests: l.SpecialRequests,
		})
	}

	return OrderDTO{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		TrackingToken:         o.TrackingToken,
		Status:                o.Status.String(),
		DeliveryAddress:       o.DeliveryAddress,
		SpecialInstructions:   o.SpecialInstructions,
		Subtotal:              o.Subtotal.StringFixed(2),
		TaxAmount:             o.TaxAmount.StringFixed(2),
		DiscountAmount:        o.DiscountAmount.StringFixed(2),
		TotalPrice:            o.TotalPrice.StringFixed(2),
		PromotionCode:         o.PromotionCode,
		EstimatedDeliveryTime: formatOptionalTime(o.EstimatedDeliveryTime),
		ActualDeliveryTime:    formatOptionalTime(o.ActualDeliveryTime),
		Items:                 lines,
		CreatedAt:             o.CreatedAt.Format(timeLayout),
		UpdatedAt:             o.UpdatedAt.Format(timeLayout),
	}
}

func convertGuestOrder(g *service.GuestOrder) GuestOrderDTO {
	return GuestOrderDTO{
		OrderDTO:     convertOrder(g.Order),
		Code:         g.Code,
		GuestName:    g.Guest.GuestName,
		ContactPhone: g.Guest.ContactPhone,
		ContactEmail: g.Guest.ContactEmail,
		TableNumber:  g.Guest.TableNumber,
		Notes:        g.Guest.Notes,
	}
}

func convertPromotion(p *domain.Promotion) PromotionDTO {
	dto := PromotionDTO{
		ID:             p.ID,
		Code:           p.Code,
		Description:    p.Description,
		DiscountType:   string(p.DiscountType),
		DiscountValue:  p.DiscountValue.StringFixed(2),
		MinOrderAmount: p.MinOrderAmount.StringFixed(2),
		UsageLimit:     p.UsageLimit,
		UsageCount:     p.UsageCount,
		IsActive:       p.IsActive,
		StartDate:      p.StartDate.Format(timeLayout),
		ExpirationDate: p.ExpirationDate.Format(timeLayout),
		CreatedAt:      p.CreatedAt.Format(timeLayout),
	}
	if p.MaxDiscountAmount != nil {
		v := p.MaxDiscountAmount.StringFixed(2)
		dto.MaxDiscountAmount = &v
	}
	return dto
}

func convertPayment(p *domain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		PaymentType:   string(p.PaymentType),
		CardType:      p.CardType,
		CardLastFour:  p.CardLastFour,
		Amount:        p.Amount.StringFixed(2),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt.Format(timeLayout),
		UpdatedAt:     p.UpdatedAt.Format(timeLayout),
	}
}

func toLineRequests(items []OrderLineRequestDTO) []domain.LineRequest {
	lines := make([]domain.LineRequest, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.LineRequest{
			MenuItemID:      it.MenuItemID,
			Quantity:        it.Quantity,
			SpecialRequests: it.SpecialRequests,
		})
	}
	return lines
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

// decodeJSON rejects unknown fields and oversize bodies with a 400 and reports
// whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// parsePage reads skip/limit; the services clamp them, here only the syntax is checked.
func parsePage(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"skip", &skip}, {"limit", &limit}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("invalid %s", p.name))
			return 0, 0, false
		}
		*p.dst = n
	}
	return skip, limit, true
}
