package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

type Promotion struct {
	ID                int64
	Code              string
	Description       string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	UsageCount        int
	IsActive          bool
	StartDate         time.Time
	ExpirationDate    time.Time
	CreatedAt         time.Time
}

// PromotionPatch holds the mutable fields of a promotion; nil means unchanged.
type PromotionPatch struct {
	Description       *string
	DiscountValue     *decimal.Decimal
	MinOrderAmount    *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	UsageLimit        *int
	IsActive          *bool
	ExpirationDate    *time.Time
}

func (p PromotionPatch) Apply(promo *Promotion) {
	if p.Description != nil {
		promo.Description = *p.Description
	}
	if p.DiscountValue != nil {
		promo.DiscountValue = *p.DiscountValue
	}
	if p.MinOrderAmount != nil {
		promo.MinOrderAmount = *p.MinOrderAmount
	}
	if p.MaxDiscountAmount != nil {
		v := *p.MaxDiscountAmount
		promo.MaxDiscountAmount = &v
	}
	if p.UsageLimit != nil {
		v := *p.UsageLimit
		promo.UsageLimit = &v
	}
	if p.IsActive != nil {
		promo.IsActive = *p.IsActive
	}
	if p.ExpirationDate != nil {
		promo.ExpirationDate = p.ExpirationDate.UTC()
	}
}

// Validate checks the invariants that must hold on create and after every update.
func (p *Promotion) Validate() error {
	switch {
	case len(p.Code) == 0 || len(p.Code) > 50:
		return NewValidationError("code", "must be between 1 and 50 characters")
	case len(p.Description) > 255:
		return NewValidationError("description", "must be at most 255 characters")
	case p.DiscountType != DiscountTypePercentage && p.DiscountType != DiscountTypeFixedAmount:
		return NewValidationError("discount_type", "must be percentage or fixed_amount")
	case !p.DiscountValue.IsPositive():
		return NewValidationError("discount_value", "must be greater than zero")
	case p.DiscountType == DiscountTypePercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)):
		return NewValidationError("discount_value", "percentage must not exceed 100")
	case p.MinOrderAmount.IsNegative():
		return NewValidationError("min_order_amount", "must not be negative")
	case p.MaxDiscountAmount != nil && !p.MaxDiscountAmount.IsPositive():
		return NewValidationError("max_discount_amount", "must be greater than zero")
	case p.UsageLimit != nil && *p.UsageLimit <= 0:
		return NewValidationError("usage_limit", "must be greater than zero")
	case p.UsageLimit != nil && p.UsageCount > *p.UsageLimit:
		return NewValidationError("usage_limit", "must not be below current usage count %d", p.UsageCount)
	case p.StartDate.IsZero() || p.ExpirationDate.IsZero():
		return NewValidationError("start_date", "start and expiration dates are required")
	case !p.ExpirationDate.After(p.StartDate):
		return NewValidationError("expiration_date", "must be after start_date")
	}
	return nil
}
