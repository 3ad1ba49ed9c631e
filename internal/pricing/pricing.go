// Package pricing turns requested lines into priced orders and applies promotions.
//
// All currency amounts are rounded half away from zero to two places. Amounts in
// this package are never negative, so that is the same as rounding half up.
package pricing

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	CurrencyPlaces = 2

	// MaxLineQuantity bounds a single line.
	MaxLineQuantity = 1000
)

var (
	hundred = decimal.NewFromInt(100)

	// MaxAmount is the largest amount a NUMERIC(10,2) column holds.
	MaxAmount = decimal.RequireFromString("99999999.99")
)

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

type PricedOrder struct {
	Lines    []domain.OrderLine
	Subtotal decimal.Decimal
}

// ValidateLines rejects an empty order and quantities outside
// 1..MaxLineQuantity. It runs before any catalog lookup.
func ValidateLines(lines []domain.LineRequest) error {
	if len(lines) == 0 {
		return domain.NewValidationError("items", "order must contain at least one item")
	}

	var errs []error
	for i, line := range lines {
		switch {
		case line.Quantity <= 0:
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero"))
		case line.Quantity > MaxLineQuantity:
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i),
				fmt.Sprintf("must be at most %d", MaxLineQuantity)))
		}
		if line.MenuItemID <= 0 {
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("items[%d].menu_item_id", i), "must be a positive id"))
		}
		if len(line.SpecialRequests) > 255 {
			errs = append(errs, domain.NewValidationError(fmt.Sprintf("items[%d].special_requests", i), "must be at most 255 characters"))
		}
	}
	return errors.Join(errs...)
}

// MenuItemIDs returns the distinct ids referenced by lines, in first-seen order.
func MenuItemIDs(lines []domain.LineRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.MenuItemID]; ok {
			continue
		}
		seen[line.MenuItemID] = struct{}{}
		ids = append(ids, line.MenuItemID)
	}
	return ids
}

// PriceLines prices every line at the catalog's current price. Missing ids are
// reported together, sorted.
func PriceLines(lines []domain.LineRequest, catalog map[int64]*domain.MenuItem) (*PricedOrder, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	var missing, unavailable []int64
	for _, id := range MenuItemIDs(lines) {
		item, ok := catalog[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !item.IsActive:
			unavailable = append(unavailable, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &domain.MissingItemsError{IDs: missing}
	}
	if len(unavailable) > 0 {
		slices.Sort(unavailable)
		return nil, &domain.UnavailableItemsError{IDs: unavailable}
	}

	priced := &PricedOrder{
		Lines:    make([]domain.OrderLine, 0, len(lines)),
		Subtotal: decimal.Zero,
	}
	for _, line := range lines {
		item := catalog[line.MenuItemID]
		unitPrice := Round(item.Price)
		lineSubtotal := Round(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

		priced.Lines = append(priced.Lines, domain.OrderLine{
			MenuItemID:      item.ID,
			ItemName:        item.Name,
			Quantity:        line.Quantity,
			UnitPrice:       unitPrice,
			LineSubtotal:    lineSubtotal,
			SpecialRequests: line.SpecialRequests,
		})
		priced.Subtotal = priced.Subtotal.Add(lineSubtotal)
	}
	if err := CheckAmount("subtotal", priced.Subtotal); err != nil {
		return nil, err
	}

	return priced, nil
}

// CheckAmount reports a validation error when d exceeds MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.GreaterThan(MaxAmount) {
		return domain.NewValidationError(field, "exceeds "+MaxAmount.StringFixed(CurrencyPlaces))
	}
	return nil
}

// CheckPromotion applies the validity guards in a fixed order: active flag,
// start date, expiration date, usage headroom.
func CheckPromotion(p *domain.Promotion, now time.Time) error {
	now = now.UTC()
	switch {
	case !p.IsActive:
		return &domain.PromotionRuleError{Code: p.Code, Rule: domain.RuleInactive}
	case now.Before(p.StartDate.UTC()):
		return &domain.PromotionRuleError{Code: p.Code, Rule: domain.RuleNotStarted}
	case now.After(p.ExpirationDate.UTC()):
		return &domain.PromotionRuleError{Code: p.Code, Rule: domain.RuleExpired}
	case p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit:
		return &domain.PromotionRuleError{Code: p.Code, Rule: domain.RuleExhausted}
	}
	return nil
}

// CalculateDiscount checks the minimum order and returns the discount, which
// never exceeds the configured cap or the subtotal itself.
func CalculateDiscount(p *domain.Promotion, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.LessThan(p.MinOrderAmount) {
		return decimal.Zero, &domain.PromotionRuleError{
			Code:    p.Code,
			Rule:    domain.RuleThresholdNotMet,
			Minimum: Round(p.MinOrderAmount),
		}
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case domain.DiscountTypePercentage:
		discount = subtotal.Mul(p.DiscountValue).Div(hundred)
	case domain.DiscountTypeFixedAmount:
		discount = p.DiscountValue
	default:
		return decimal.Zero, fmt.Errorf("unknown discount type %q", p.DiscountType)
	}
	discount = Round(discount)

	if p.MaxDiscountAmount != nil {
		discount = decimal.Min(discount, Round(*p.MaxDiscountAmount))
	}
	return decimal.Min(discount, subtotal), nil
}

// Tax is the flat-rate tax on the pre-discount subtotal.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(rate))
}

func Total(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Sub(discount)
}
