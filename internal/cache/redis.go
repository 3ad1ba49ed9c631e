package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/redis/go-redis/v9"
)

const listIndexKey = "menu:lists"

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 10 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := r.get(ctx, ItemKey(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisCache) SetItem(ctx context.Context, item *domain.MenuItem) error {
	return r.set(ctx, ItemKey(item.ID), item)
}

func (r *RedisCache) GetList(ctx context.Context, filter domain.MenuFilter) ([]*domain.MenuItem, error) {
	var items []*domain.MenuItem
	if err := r.get(ctx, ListKey(filter), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]*domain.MenuItem, 0)
	}
	return items, nil
}

func (r *RedisCache) SetList(ctx context.Context, filter domain.MenuFilter, items []*domain.MenuItem) error {
	key := ListKey(filter)
	if err := r.set(ctx, key, items); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, listIndexKey, key).Err(); err != nil {
		return fmt.Errorf("redis sadd failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, id int64) error {
	lists, err := r.client.SMembers(ctx, listIndexKey).Result()
	if err != nil {
		return fmt.Errorf("redis smembers failed: %w", err)
	}

	keys := append(lists, ItemKey(id), listIndexKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, key, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ItemKey and ListKey name the redis entries; they also serve as singleflight keys.
func ItemKey(id int64) string {
	return fmt.Sprintf("menu:item:%d", id)
}

func ListKey(f domain.MenuFilter) string {
	veg := "any"
	if f.Vegetarian != nil {
		veg = strconv.FormatBool(*f.Vegetarian)
	}
	return fmt.Sprintf("menu:list:q=%s:cat=%s:veg=%s:inactive=%t",
		strings.ToLower(strings.TrimSpace(f.Search)),
		f.Category,
		veg,
		f.IncludeInactive,
	)
}
