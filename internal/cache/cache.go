package cache

import (
	"context"
	"errors"

	"github.com/fjod/sandwich_shop/internal/domain"
)

type MenuCache interface {
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	SetItem(ctx context.Context, item *domain.MenuItem) error
	GetList(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error)
	SetList(ctx context.Context, filter domain.MenuFilter, items []*domain.MenuItem) error
	// Invalidate drops the item entry and every cached list.
	Invalidate(ctx context.Context, id int64) error
}

var ErrCacheMiss = errors.New("cache miss")

// NoopCache is used when no redis address is configured.
type NoopCache struct{}

func (NoopCache) GetItem(context.Context, int64) (*domain.MenuItem, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) SetItem(context.Context, *domain.MenuItem) error { return nil }

func (NoopCache) GetList(context.Context, domain.MenuFilter) ([]*domain.MenuItem, error) {
	return nil, ErrCacheMiss
}

func (NoopCache) SetList(context.Context, domain.MenuFilter, []*domain.MenuItem) error { return nil }

func (NoopCache) Invalidate(context.Context, int64) error { return nil }
