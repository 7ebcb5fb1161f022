package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/pkg/logger"
)

const (
	productKeyPrefix = "inventory:product:"
	DefaultTTL       = 5 * time.Minute
)

// RedisProductCache stores products as JSON under inventory:product:<id>
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache creates a product cache. A non-positive ttl falls back to DefaultTTL.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

func productKey(id uint) string {
	return productKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// Get returns the cached product, or nil on a cache miss
func (c *RedisProductCache) Get(ctx context.Context, id uint) (*domain.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug(ctx).Uint("product_id", id).Msg("Cache miss")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached product: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}

	logger.Debug(ctx).Uint("product_id", id).Msg("Cache hit")
	return &product, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached product: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id uint) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("delete cached product: %w", err)
	}
	return nil
}

// NewRedisClient connects to addr and verifies the connection with PING
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
