package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	CustomerID int64     `json:"customer_id"`
	MenuItemID int64     `json:"menu_item_id"`
	Rating     float64   `json:"rating"`
	ReviewText string    `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReviewPatch struct {
	Rating     *float64
	ReviewText *string
}

type RatingSummary struct {
	MenuItemID    int64   `json:"menu_item_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func ValidateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return NewValidationError("rating", "must be between 0 and 5")
	}
	return nil
}

func ValidateReviewText(text string) error {
	if len(text) > 1000 {
		return NewValidationError("review_text", "must be at most 1000 characters")
	}
	return nil
}
