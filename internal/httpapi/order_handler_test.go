package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

func newOrderHandler(orders *MockOrderStore) *OrderHandler {
	return NewOrderHandler(orders, zap.NewNop(), 5*time.Second)
}

func TestListOrders_ReturnsBuyerOrders(t *testing.T) {
	orders := &MockOrderStore{Listed: []*domain.Order{
		{ID: "o1", UserID: "user-1", ProductID: "p1"},
		{ID: "o2", UserID: "user-1", ProductID: "p2"},
	}}
	handler := newOrderHandler(orders)

	request := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), &domain.User{ID: "user-1"})
	recorder := httptest.NewRecorder()

	handler.ListOrders(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "o1")
	assert.Contains(t, recorder.Body.String(), "o2")
}

func TestListOrders_EmptyIsArrayNotNull(t *testing.T) {
	handler := newOrderHandler(&MockOrderStore{})

	request := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), &domain.User{ID: "user-1"})
	recorder := httptest.NewRecorder()

	handler.ListOrders(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())
}

func TestListOrders_Unauthenticated(t *testing.T) {
	handler := newOrderHandler(&MockOrderStore{})

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetOrder_Success(t *testing.T) {
	orders := &MockOrderStore{Orders: map[string]*domain.Order{
		"o1": {ID: "o1", UserID: "user-1", ProductID: "p1"},
	}}
	handler := newOrderHandler(orders)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/orders/o1", nil)
	request = asUser(withURLParam(request, "orderID", "o1"), &domain.User{ID: "user-1"})
	recorder := httptest.NewRecorder()

	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "o1")
}

func TestGetOrder_OnlyVisibleToBuyer(t *testing.T) {
	orders := &MockOrderStore{Orders: map[string]*domain.Order{
		"o1": {ID: "o1", UserID: "user-1", ProductID: "p1"},
	}}
	handler := newOrderHandler(orders)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/orders/o1", nil)
	request = asUser(withURLParam(request, "orderID", "o1"), &domain.User{ID: "user-2"})
	recorder := httptest.NewRecorder()

	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	handler := newOrderHandler(&MockOrderStore{})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope", nil)
	request = asUser(withURLParam(request, "orderID", "nope"), &domain.User{ID: "user-1"})
	recorder := httptest.NewRecorder()

	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
