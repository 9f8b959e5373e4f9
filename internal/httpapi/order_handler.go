package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
)

type OrderHandler struct {
	orders  OrderStore
	log     *zap.Logger
	timeout time.Duration
}

func NewOrderHandler(orders OrderStore, log *zap.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, log: log, timeout: timeout}
}

// ListOrders returns the authenticated user's purchase history, newest
// first.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		h.log.Error("list orders failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.GetOrderByID(ctx, chi.URLParam(r, "orderID"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	if err != nil {
		h.log.Error("get order failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch order")
		return
	}
	if order.UserID != user.ID {
		respondError(w, http.StatusForbidden, "not_owner", "orders are only visible to the buyer")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
