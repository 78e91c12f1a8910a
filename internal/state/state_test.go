package state

import (
	"context"
	"testing"
	"time"

	"catalog/navigator/internal/cart"
	"catalog/navigator/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSaveAndLoadCart(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	manager := NewRedisStateManager(rdb, "test:cart:", time.Hour)

	snapshot := cart.Snapshot{
		ID: "cart-1",
		Items: []cart.SnapshotItem{
			{ProductID: "P1", Quantity: 2, Price: domain.Price{Amount: decimal.RequireFromString("20.00"), Currency: "EUR"}},
			{ProductID: "P2", Quantity: 1, Price: domain.Price{Amount: decimal.RequireFromString("15.50"), Currency: "EUR"}},
		},
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, manager.SaveCart(ctx, snapshot))

	assert.True(t, mr.Exists("test:cart:cart-1"))
	assert.Equal(t, time.Hour, mr.TTL("test:cart:cart-1"))

	loaded, err := manager.LoadCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, loaded.ID)
	assert.True(t, snapshot.UpdatedAt.Equal(loaded.UpdatedAt))
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "P1", loaded.Items[0].ProductID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[1].Price.Amount.Equal(decimal.RequireFromString("15.5")))

	require.NoError(t, manager.DeleteCart(ctx, "cart-1"))
	_, err = manager.LoadCart(ctx, "cart-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadCartErrors(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	manager := NewRedisStateManager(rdb, "test:cart:", 0)

	_, err := manager.LoadCart(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mr.Set("test:cart:broken", "{not json"))
	_, err = manager.LoadCart(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCartServiceRoundTripThroughRedis(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	manager := NewRedisStateManager(rdb, "test:cart:", 0)

	resolver := staticResolver{
		"P1": {ID: "P1", Price: domain.Price{Amount: decimal.NewFromInt(20), Currency: "EUR"}},
	}
	service := cart.NewService(resolver, nil, manager, nil)

	c := service.CreateCart()
	require.NoError(t, c.AddProduct(ctx, "P1"))
	require.NoError(t, c.AddProduct(ctx, "P1"))

	restored, err := cart.NewService(resolver, nil, manager, nil).RestoreCart(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Count())
}

type staticResolver map[string]*domain.Product

func (r staticResolver) Product(id string) (*domain.Product, error) {
	p, ok := r[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
