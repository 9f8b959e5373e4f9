package cache

import (
	"context"
	"errors"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

type ProductCache interface {
	GetMarketProducts(ctx context.Context, marketID string) ([]*domain.Product, error)
	SetMarketProducts(ctx context.Context, marketID string, products []*domain.Product) error
	InvalidateMarket(ctx context.Context, marketID string) error
}

// IdempotencyStore remembers which order an idempotency key produced, so a
// retried checkout never charges twice.
type IdempotencyStore interface {
	GetOrderID(ctx context.Context, key string) (string, error)
	SetOrderID(ctx context.Context, key, orderID string) error
}

var ErrCacheMiss = errors.New("cache miss")
