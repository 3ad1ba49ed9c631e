package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/sandwich_shop/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client, 10*time.Minute)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testItem(id int64, name string) *domain.MenuItem {
	return &domain.MenuItem{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString("7.99"),
		Category: "classic",
		IsActive: true,
	}
}

func TestGetItem_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	data, err := json.Marshal(testItem(3, "Turkey Club"))
	require.NoError(t, err)
	require.NoError(t, mr.Set(ItemKey(3), string(data)))

	item, err := cache.GetItem(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Turkey Club", item.Name)
	assert.Equal(t, "7.99", item.Price.StringFixed(2))
}

func TestGetItem_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	item, err := cache.GetItem(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, item)
}

func TestGetItem_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(ItemKey(1), `{"id":1,"na`))

	_, err := cache.GetItem(context.Background(), 1)
	require.ErrorContains(t, err, "unmarshal menu:item:1 failed")
}

func TestSetItem_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, cache.SetItem(context.Background(), testItem(5, "BLT")))

	assert.True(t, mr.Exists(ItemKey(5)))
	ttl := mr.TTL(ItemKey(5))
	assert.True(t, ttl >= 10*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 11*time.Minute, "TTL should be base + max jitter")
}

func TestList_RoundTripPerFilter(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	veg := true
	vegFilter := domain.MenuFilter{Vegetarian: &veg}
	require.NoError(t, cache.SetList(ctx, vegFilter, []*domain.MenuItem{testItem(1, "Veggie")}))

	got, err := cache.GetList(ctx, vegFilter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Veggie", got[0].Name)

	_, err = cache.GetList(ctx, domain.MenuFilter{})
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestList_EmptyStaysEmpty(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, cache.SetList(ctx, domain.MenuFilter{Category: "soup"}, []*domain.MenuItem{}))

	got, err := cache.GetList(ctx, domain.MenuFilter{Category: "soup"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInvalidate_DropsItemAndLists(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, cache.SetItem(ctx, testItem(1, "A")))
	require.NoError(t, cache.SetItem(ctx, testItem(2, "B")))
	require.NoError(t, cache.SetList(ctx, domain.MenuFilter{}, []*domain.MenuItem{testItem(1, "A")}))
	require.NoError(t, cache.SetList(ctx, domain.MenuFilter{Search: "a"}, []*domain.MenuItem{testItem(1, "A")}))

	require.NoError(t, cache.Invalidate(ctx, 1))

	assert.False(t, mr.Exists(ItemKey(1)))
	assert.True(t, mr.Exists(ItemKey(2)))
	assert.False(t, mr.Exists(ListKey(domain.MenuFilter{})))
	assert.False(t, mr.Exists(ListKey(domain.MenuFilter{Search: "a"})))
	assert.False(t, mr.Exists(listIndexKey))
}

func TestInvalidate_NothingCached(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cache.Invalidate(context.Background(), 99))
}

func TestListKey_Format(t *testing.T) {
	veg := false
	assert.Equal(t, "menu:list:q=club:cat=classic:veg=false:inactive=true",
		ListKey(domain.MenuFilter{Search: " Club ", Category: "classic", Vegetarian: &veg, IncludeInactive: true}))
	assert.Equal(t, "menu:list:q=:cat=:veg=any:inactive=false", ListKey(domain.MenuFilter{}))
	assert.Equal(t, "menu:item:12", ItemKey(12))
}

func TestNoopCache(t *testing.T) {
	var c MenuCache = NoopCache{}
	ctx := context.Background()

	require.NoError(t, c.SetItem(ctx, testItem(1, "A")))
	_, err := c.GetItem(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.GetList(ctx, domain.MenuFilter{})
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx, 1))
}
