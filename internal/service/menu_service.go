package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/cache"
	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/fjod/sandwich_shop/internal/repository"
	"golang.org/x/sync/singleflight"
)

type MenuService struct {
	repo  repository.MenuRepository
	cache cache.MenuCache
	sfg   singleflight.Group
	log   *slog.Logger
}

func NewMenuService(repo repository.MenuRepository, c cache.MenuCache, log *slog.Logger) *MenuService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &MenuService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

func (s *MenuService) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	v, err, _ := s.sfg.Do(cache.ItemKey(id), func() (interface{}, error) {
		item, err := s.cache.GetItem(ctx, id)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "menu cache get failed", "menu_item_id", id, "error", err)
		}

		item, err = s.repo.GetMenuItem(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetItem(ctx, item); err != nil {
			s.log.WarnContext(ctx, "menu cache set failed", "menu_item_id", id, "error", err)
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.MenuItem), nil
}

func (s *MenuService) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)

	v, err, _ := s.sfg.Do(cache.ListKey(filter), func() (interface{}, error) {
		items, err := s.cache.GetList(ctx, filter)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "menu cache get failed", "error", err)
		}

		items, err = s.repo.ListMenuItems(ctx, filter)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetList(ctx, filter, items); err != nil {
			s.log.WarnContext(ctx, "menu cache set failed", "error", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.MenuItem), nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, role domain.Role, item *domain.MenuItem) error {
	if err := role.Require(domain.RoleStaff); err != nil {
		return err
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if err := item.Validate(); err != nil {
		return err
	}

	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	s.invalidateCache(item.ID)
	return nil
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, role domain.Role, id int64, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	if err := role.Require(domain.RoleStaff); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateMenuItem(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(id)
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, role domain.Role, id int64) error {
	if err := role.Require(domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(id)
	return nil
}

func (s *MenuService) invalidateCache(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("menu cache invalidate failed", "menu_item_id", id, "error", err)
	}
}
