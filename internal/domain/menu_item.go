package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Calories     *int            `json:"calories,omitempty"`
	Category     string          `json:"category"`
	IsVegetarian bool            `json:"is_vegetarian"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type MenuFilter struct {
	Search          string
	Category        string
	Vegetarian      *bool
	IncludeInactive bool
}

// MenuItemPatch holds the fields of a partial update; nil means unchanged.
type MenuItemPatch struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	Calories     *int
	Category     *string
	IsVegetarian *bool
	IsActive     *bool
}

func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Calories != nil {
		item.Calories = p.Calories
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.IsVegetarian != nil {
		item.IsVegetarian = *p.IsVegetarian
	}
	if p.IsActive != nil {
		item.IsActive = *p.IsActive
	}
}

func (m *MenuItem) Validate() error {
	switch {
	case len(m.Name) == 0 || len(m.Name) > 100:
		return NewValidationError("name", "must be between 1 and 100 characters")
	case len(m.Description) > 500:
		return NewValidationError("description", "must be at most 500 characters")
	case !m.Price.IsPositive():
		return NewValidationError("price", "must be greater than zero")
	case m.Price.Exponent() < -2 && !m.Price.Equal(m.Price.Round(2)):
		return NewValidationError("price", "must have at most 2 decimal places")
	case m.Calories != nil && *m.Calories < 0:
		return NewValidationError("calories", "must not be negative")
	case len(m.Category) == 0 || len(m.Category) > 50:
		return NewValidationError("category", "must be between 1 and 50 characters")
	}
	return nil
}
