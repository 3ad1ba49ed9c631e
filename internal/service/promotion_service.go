package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/repository"
)

// PromotionService is staff-only; deleting needs admin.
type PromotionService struct {
	repo repository.PromotionRepository
	log  *slog.Logger
}

func NewPromotionService(repo repository.PromotionRepository, log *slog.Logger) *PromotionService {
	return &PromotionService{repo: repo, log: log}
}

func (s *PromotionService) CreatePromotion(ctx context.Context, role domain.Role, p *domain.Promotion) error {
	if err := role.Require(domain.RoleStaff); err != nil {
		return err
	}
	p.Code = repository.NormalizePromotionCode(p.Code)
	p.UsageCount = 0
	p.StartDate = p.StartDate.UTC()
	p.ExpirationDate = p.ExpirationDate.UTC()
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.repo.CreatePromotion(ctx, p); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "promotion created", "promotion_id", p.ID, "code", p.Code)
	return nil
}

func (s *PromotionService) GetPromotion(ctx context.Context, role domain.Role, id int64) (*domain.Promotion, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	return s.repo.GetPromotionByID(ctx, id)
}

func (s *PromotionService) ListPromotions(ctx context.Context, role domain.Role) ([]*domain.Promotion, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	return s.repo.ListPromotions(ctx)
}

func (s *PromotionService) UpdatePromotion(ctx context.Context, role domain.Role, id int64, patch domain.PromotionPatch) (*domain.Promotion, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}
	return s.repo.UpdatePromotion(ctx, id, patch)
}

func (s *PromotionService) DeletePromotion(ctx context.Context, role domain.Role, id int64) error {
	if err := role.Require(domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "promotion deleted", "promotion_id", id)
	return nil
}
