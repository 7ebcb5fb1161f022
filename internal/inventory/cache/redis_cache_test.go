package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/batch-inventory/internal/inventory/domain"
)

func TestRedisProductCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisProductCache(client, time.Minute)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	product := &domain.Product{ID: 1, Name: "Widget", TotalQuantity: 15, Version: 2}
	require.NoError(t, c.Set(ctx, product))
	assert.Equal(t, time.Minute, mr.TTL("inventory:product:1"))

	got, err = c.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 15, got.TotalQuantity)
	assert.Equal(t, 2, got.Version)

	require.NoError(t, c.Invalidate(ctx, 1))
	assert.False(t, mr.Exists("inventory:product:1"))

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisProductCache_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisProductCache(client, 0)
	require.NoError(t, c.Set(ctx, &domain.Product{ID: 3, Name: "Gadget"}))
	assert.Equal(t, DefaultTTL, mr.TTL("inventory:product:3"))

	mr.FastForward(DefaultTTL + time.Second)

	got, err := c.Get(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisProductCache_CorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("inventory:product:4", "not json"))

	_, err := NewRedisProductCache(client, time.Minute).Get(context.Background(), 4)
	assert.Error(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
