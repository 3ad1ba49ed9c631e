package service

import (
	"context"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/repository"
)

type ReviewService struct {
	reviews repository.ReviewRepository
	menu    *MenuService
}

func NewReviewService(reviews repository.ReviewRepository, menu *MenuService) *ReviewService {
	return &ReviewService{reviews: reviews, menu: menu}
}

func (s *ReviewService) CreateReview(ctx context.Context, review *domain.Review) error {
	if review.CustomerID <= 0 {
		return domain.NewValidationError("customer_id", "must be a positive id")
	}
	if err := domain.ValidateRating(review.Rating); err != nil {
		return err
	}
	if err := domain.ValidateReviewText(review.ReviewText); err != nil {
		return err
	}
	if _, err := s.menu.GetMenuItem(ctx, review.MenuItemID); err != nil {
		return err
	}
	return s.reviews.CreateReview(ctx, review)
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetReview(ctx, id)
}

func (s *ReviewService) ListReviews(ctx context.Context, skip, limit int) ([]*domain.Review, error) {
	skip, limit = normalizePage(skip, limit)
	return s.reviews.ListReviews(ctx, skip, limit)
}

func (s *ReviewService) ListMenuItemReviews(ctx context.Context, menuItemID int64, skip, limit int) ([]*domain.Review, error) {
	if _, err := s.menu.GetMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	skip, limit = normalizePage(skip, limit)
	return s.reviews.ListReviewsByMenuItem(ctx, menuItemID, skip, limit)
}

func (s *ReviewService) UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	if patch.Rating != nil {
		if err := domain.ValidateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}
	if patch.ReviewText != nil {
		if err := domain.ValidateReviewText(*patch.ReviewText); err != nil {
			return nil, err
		}
	}
	return s.reviews.UpdateReview(ctx, id, patch)
}

func (s *ReviewService) DeleteReview(ctx context.Context, role domain.Role, id string) error {
	if err := role.Require(domain.RoleStaff); err != nil {
		return err
	}
	return s.reviews.DeleteReview(ctx, id)
}

// RatingSummary reports zero reviews for an existing item nobody rated yet.
func (s *ReviewService) RatingSummary(ctx context.Context, menuItemID int64) (*domain.RatingSummary, error) {
	if _, err := s.menu.GetMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	return s.reviews.RatingSummary(ctx, menuItemID)
}
