package httpapi

import (
	"context"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

// Store interfaces are satisfied by *repository.Repository; handlers depend
// on the slice of it they actually use.

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetEmailVerified(ctx context.Context, id string, verified bool) error
}

type MarketStore interface {
	CreateMarket(ctx context.Context, market *domain.Market) error
	GetMarket(ctx context.Context, id string) (*domain.Market, error)
	SearchMarkets(ctx context.Context, q string) ([]*domain.Market, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProductsByMarket(ctx context.Context, marketID string) ([]*domain.Product, error)
}

type OrderStore interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
