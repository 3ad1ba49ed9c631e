package service

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePromotion(t *testing.T) {
	repo := &MockPromotionRepository{}
	svc := NewPromotionService(repo, discardLogger())
	ctx := context.Background()

	est := time.FixedZone("EST", -5*60*60)
	p := &domain.Promotion{
		Code:           " lunch5 ",
		DiscountType:   domain.DiscountTypeFixedAmount,
		DiscountValue:  decimal.RequireFromString("5.00"),
		UsageCount:     12,
		IsActive:       true,
		StartDate:      time.Date(2026, 6, 1, 9, 0, 0, 0, est),
		ExpirationDate: time.Date(2026, 6, 30, 21, 0, 0, 0, est),
	}

	assert.ErrorIs(t, svc.CreatePromotion(ctx, domain.RoleCustomer, p), domain.ErrForbidden)
	assert.Empty(t, repo.Created)

	require.NoError(t, svc.CreatePromotion(ctx, domain.RoleStaff, p))
	assert.Equal(t, "LUNCH5", p.Code)
	assert.Zero(t, p.UsageCount)
	assert.Equal(t, time.UTC, p.StartDate.Location())
	assert.Equal(t, 14, p.StartDate.Hour())
	require.Len(t, repo.Created, 1)
}

func TestCreatePromotion_InvalidWindow(t *testing.T) {
	repo := &MockPromotionRepository{}
	svc := NewPromotionService(repo, discardLogger())

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &domain.Promotion{
		Code:           "BACKWARDS",
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  decimal.RequireFromString("10"),
		StartDate:      start,
		ExpirationDate: start,
	}

	err := svc.CreatePromotion(context.Background(), domain.RoleAdmin, p)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expiration_date", vErr.Field)
	assert.Empty(t, repo.Created)
}

func TestPromotionReads_RequireStaff(t *testing.T) {
	repo := &MockPromotionRepository{ByCode: map[string]*domain.Promotion{
		"SPRING": {ID: 3, Code: "SPRING"},
	}}
	svc := NewPromotionService(repo, discardLogger())
	ctx := context.Background()

	_, err := svc.GetPromotion(ctx, domain.RoleCustomer, 3)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.ListPromotions(ctx, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err := svc.GetPromotion(ctx, domain.RoleStaff, 3)
	require.NoError(t, err)
	assert.Equal(t, "SPRING", p.Code)

	list, err := svc.ListPromotions(ctx, domain.RoleStaff)
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestUpdatePromotion_LimitBelowUsage(t *testing.T) {
	limit := 10
	repo := &MockPromotionRepository{ByCode: map[string]*domain.Promotion{
		"BUSY": {
			ID:             1,
			Code:           "BUSY",
			DiscountType:   domain.DiscountTypeFixedAmount,
			DiscountValue:  decimal.RequireFromString("1.00"),
			UsageLimit:     &limit,
			UsageCount:     4,
			IsActive:       true,
			StartDate:      fixedNow.Add(-time.Hour),
			ExpirationDate: fixedNow.Add(time.Hour),
		},
	}}
	svc := NewPromotionService(repo, discardLogger())

	lower := 3
	_, err := svc.UpdatePromotion(context.Background(), domain.RoleStaff, 1, domain.PromotionPatch{UsageLimit: &lower})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeletePromotion_RequiresAdmin(t *testing.T) {
	repo := &MockPromotionRepository{}
	svc := NewPromotionService(repo, discardLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeletePromotion(ctx, domain.RoleStaff, 1), domain.ErrForbidden)
	require.NoError(t, svc.DeletePromotion(ctx, domain.RoleAdmin, 1))
	assert.Equal(t, []int64{1}, repo.Deleted)
}
