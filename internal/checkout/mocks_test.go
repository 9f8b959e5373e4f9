package checkout

import (
	"context"
	"errors"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/cache"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/notify"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/payment"
)

// MockUserStore implements UserStore for testing.
type MockUserStore struct {
	Users map[string]*domain.User
	Err   error
}

func (m *MockUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type MockProductStore struct {
	Products map[string]*domain.Product
	Err      error
}

func (m *MockProductStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	product, ok := m.Products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return product, nil
}

// MockOrderStore captures created orders and counts calls.
type MockOrderStore struct {
	CreateErr     error
	CreateCalls   int
	CreatedOrders []*domain.Order
	Existing      map[string]*domain.Order
}

func (m *MockOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.CreatedOrders = append(m.CreatedOrders, order)
	return nil
}

func (m *MockOrderStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := m.Existing[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

type MockProcessor struct {
	Charge *payment.Charge
	Err    error
	Calls  int
	Params payment.ChargeParams
}

func (m *MockProcessor) CreateCharge(_ context.Context, params payment.ChargeParams) (*payment.Charge, error) {
	m.Calls++
	m.Params = params
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Charge, nil
}

type MockIdempotencyStore struct {
	Keys   map[string]string
	GetErr error
	SetErr error
}

func (m *MockIdempotencyStore) GetOrderID(_ context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	orderID, ok := m.Keys[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return orderID, nil
}

func (m *MockIdempotencyStore) SetOrderID(_ context.Context, key, orderID string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Keys == nil {
		m.Keys = make(map[string]string)
	}
	m.Keys[key] = orderID
	return nil
}

type MockNotifier struct {
	Err           error
	Confirmations []notify.OrderConfirmation
}

func (m *MockNotifier) OrderConfirmed(_ context.Context, confirmation notify.OrderConfirmation) error {
	if m.Err != nil {
		return m.Err
	}
	m.Confirmations = append(m.Confirmations, confirmation)
	return nil
}
