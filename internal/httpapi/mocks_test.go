package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/cache"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/feed"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/notify"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
)

// Hand-written mocks for the store interfaces the handlers depend on.

type MockUserStore struct {
	Users      map[string]*domain.User
	Err        error
	Created    []*domain.User
	VerifiedID string
}

func (m *MockUserStore) CreateUser(_ context.Context, user *domain.User) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, user)
	return nil
}

func (m *MockUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserStore) SetEmailVerified(_ context.Context, id string, _ bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.VerifiedID = id
	return nil
}

type MockMarketStore struct {
	Markets   map[string]*domain.Market
	Results   []*domain.Market
	Err       error
	Created   []*domain.Market
	LastQuery string
}

func (m *MockMarketStore) CreateMarket(_ context.Context, market *domain.Market) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, market)
	return nil
}

func (m *MockMarketStore) GetMarket(_ context.Context, id string) (*domain.Market, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	market, ok := m.Markets[id]
	if !ok {
		return nil, repository.ErrMarketNotFound
	}
	return market, nil
}

func (m *MockMarketStore) SearchMarkets(_ context.Context, q string) ([]*domain.Market, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastQuery = q
	return m.Results, nil
}

type MockProductStore struct {
	Products  map[string]*domain.Product
	Listed    []*domain.Product
	Err       error
	Created   []*domain.Product
	Updated   []*domain.Product
	DeletedID string
	ListCalls int
}

func (m *MockProductStore) CreateProduct(_ context.Context, product *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.Created = append(m.Created, product)
	return nil
}

func (m *MockProductStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	product, ok := m.Products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *MockProductStore) UpdateProduct(_ context.Context, product *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.Updated = append(m.Updated, product)
	return nil
}

func (m *MockProductStore) DeleteProduct(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.DeletedID = id
	return nil
}

func (m *MockProductStore) ListProductsByMarket(_ context.Context, _ string) ([]*domain.Product, error) {
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Listed, nil
}

type MockOrderStore struct {
	Orders      map[string]*domain.Order
	Listed      []*domain.Order
	Err         error
	CreateCalls int
}

func (m *MockOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	m.CreateCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.Orders == nil {
		m.Orders = make(map[string]*domain.Order)
	}
	m.Orders[order.ID] = order
	return nil
}

func (m *MockOrderStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *MockOrderStore) ListOrdersByUser(_ context.Context, _ string) ([]*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Listed, nil
}

type MockProductCache struct {
	Cached        []*domain.Product
	SetCalls      int
	Invalidated   []string
	GetErr        error
	SetErr        error
	InvalidateErr error
}

func (m *MockProductCache) GetMarketProducts(_ context.Context, _ string) ([]*domain.Product, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Cached == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.Cached, nil
}

func (m *MockProductCache) SetMarketProducts(_ context.Context, _ string, products []*domain.Product) error {
	m.SetCalls++
	return m.SetErr
}

func (m *MockProductCache) InvalidateMarket(_ context.Context, marketID string) error {
	m.Invalidated = append(m.Invalidated, marketID)
	return m.InvalidateErr
}

type MockPublisher struct {
	Events []feed.ProductEvent
	Err    error
}

func (m *MockPublisher) Publish(_ context.Context, event feed.ProductEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}

type MockIdempotencyStore struct {
	Keys map[string]string
}

func (m *MockIdempotencyStore) GetOrderID(_ context.Context, key string) (string, error) {
	orderID, ok := m.Keys[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return orderID, nil
}

func (m *MockIdempotencyStore) SetOrderID(_ context.Context, key, orderID string) error {
	if m.Keys == nil {
		m.Keys = make(map[string]string)
	}
	m.Keys[key] = orderID
	return nil
}

type MockNotifier struct {
	Confirmations []notify.OrderConfirmation
}

func (m *MockNotifier) OrderConfirmed(_ context.Context, confirmation notify.OrderConfirmation) error {
	m.Confirmations = append(m.Confirmations, confirmation)
	return nil
}

// withURLParam injects a chi route parameter so handlers can be called
// without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(ContextWithUser(r.Context(), user))
}
