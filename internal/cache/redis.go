package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:         client,
		baseTTL:        15 * time.Minute,
		idempotencyTTL: 24 * time.Hour,
	}
}

type RedisCache struct {
	client         *redis.Client
	baseTTL        time.Duration
	idempotencyTTL time.Duration
}

func (r *RedisCache) GetMarketProducts(ctx context.Context, marketID string) ([]*domain.Product, error) {
	data, err := r.client.Get(ctx, productsKey(marketID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}

	return products, nil
}

func (r *RedisCache) SetMarketProducts(ctx context.Context, marketID string, products []*domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	// jitter spreads out expiry so a busy market doesn't stampede the db
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, productsKey(marketID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) InvalidateMarket(ctx context.Context, marketID string) error {
	if err := r.client.Del(ctx, productsKey(marketID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetOrderID(ctx context.Context, key string) (string, error) {
	orderID, err := r.client.Get(ctx, idempotencyKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return orderID, nil
}

func (r *RedisCache) SetOrderID(ctx context.Context, key, orderID string) error {
	if err := r.client.Set(ctx, idempotencyKey(key), orderID, r.idempotencyTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func productsKey(marketID string) string {
	return fmt.Sprintf("market:%s:products", marketID)
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}
