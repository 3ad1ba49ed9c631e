package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Error kinds. Every typed error below unwraps to exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violated")
	ErrIntegrity    = errors.New("integrity violation")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Is matches a keyless NotFoundError of the same resource, which lets
// package-level sentinels work with errors.Is.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Resource == e.Resource && (t.Key == "" || t.Key == e.Key)
}

func NewNotFoundError(resource string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprint(key)}
}

// MissingItemsError lists every requested menu item id absent from the catalog.
type MissingItemsError struct {
	IDs []int64
}

func (e *MissingItemsError) Error() string {
	return fmt.Sprintf("menu items not found: %s", joinIDs(e.IDs))
}

func (e *MissingItemsError) Unwrap() error { return ErrNotFound }

// UnavailableItemsError lists menu items that exist but are not currently sold.
type UnavailableItemsError struct {
	IDs []int64
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("menu items not available: %s", joinIDs(e.IDs))
}

func (e *UnavailableItemsError) Unwrap() error { return ErrBusinessRule }

type PromotionRule string

const (
	RuleInactive        PromotionRule = "promotion_inactive"
	RuleNotStarted      PromotionRule = "promotion_not_started"
	RuleExpired         PromotionRule = "promotion_expired"
	RuleExhausted       PromotionRule = "promotion_usage_exhausted"
	RuleThresholdNotMet PromotionRule = "promotion_threshold_not_met"
)

type PromotionRuleError struct {
	Code    string
	Rule    PromotionRule
	Minimum decimal.Decimal // set for RuleThresholdNotMet
}

func (e *PromotionRuleError) Error() string {
	switch e.Rule {
	case RuleInactive:
		return fmt.Sprintf("promotion %s is not active", e.Code)
	case RuleNotStarted:
		return fmt.Sprintf("promotion %s has not started yet", e.Code)
	case RuleExpired:
		return fmt.Sprintf("promotion %s has expired", e.Code)
	case RuleExhausted:
		return fmt.Sprintf("promotion %s has reached its usage limit", e.Code)
	case RuleThresholdNotMet:
		return fmt.Sprintf("promotion %s requires a minimum order of %s", e.Code, e.Minimum.StringFixed(2))
	default:
		return fmt.Sprintf("promotion %s cannot be applied", e.Code)
	}
}

func (e *PromotionRuleError) Unwrap() error { return ErrBusinessRule }

type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrConflict }

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
