package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/cache"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/feed"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
)

// EventPublisher pushes product mutations onto the feed topic.
type EventPublisher interface {
	Publish(ctx context.Context, event feed.ProductEvent) error
}

type ProductHandler struct {
	products  ProductStore
	markets   MarketStore
	cache     cache.ProductCache
	publisher EventPublisher
	reducer   *feed.Reducer
	log       *zap.Logger
	timeout   time.Duration
}

func NewProductHandler(products ProductStore, markets MarketStore, productCache cache.ProductCache, publisher EventPublisher, reducer *feed.Reducer, log *zap.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products:  products,
		markets:   markets,
		cache:     productCache,
		publisher: publisher,
		reducer:   reducer,
		log:       log,
		timeout:   timeout,
	}
}

type CreateProductRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Shipped     bool   `json:"shipped"`
	FileKey     string `json:"file_key"`
}

type UpdateProductRequestDTO struct {
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Shipped     bool   `json:"shipped"`
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}
	if !user.EmailVerified {
		respondError(w, http.StatusForbidden, "email_not_verified", "verify your email before adding products")
		return
	}

	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Description == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and description are required")
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a positive integer in minor units")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	marketID := chi.URLParam(r, "marketID")
	market, err := h.markets.GetMarket(ctx, marketID)
	if errors.Is(err, repository.ErrMarketNotFound) {
		respondError(w, http.StatusNotFound, "market_not_found", "market not found")
		return
	}
	if err != nil {
		h.log.Error("get market failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch market")
		return
	}
	if market.Owner != user.Username {
		respondError(w, http.StatusForbidden, "not_owner", "only the market owner can add products")
		return
	}

	product := &domain.Product{
		ID:          uuid.New().String(),
		MarketID:    marketID,
		Owner:       user.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Shipped:     req.Shipped,
		FileKey:     req.FileKey,
	}
	if err := h.products.CreateProduct(ctx, product); err != nil {
		h.log.Error("create product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "create_failed", "failed to create product")
		return
	}

	h.afterMutation(ctx, feed.EventProductCreated, product)
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req UpdateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a positive integer in minor units")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := h.ownedProduct(ctx, w, user, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	product.Description = req.Description
	product.Price = req.Price
	product.Shipped = req.Shipped
	if err := h.products.UpdateProduct(ctx, product); err != nil {
		h.log.Error("update product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "update_failed", "failed to update product")
		return
	}

	h.afterMutation(ctx, feed.EventProductUpdated, product)
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := h.ownedProduct(ctx, w, user, chi.URLParam(r, "productID"))
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(ctx, product.ID); err != nil {
		h.log.Error("delete product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "delete_failed", "failed to delete product")
		return
	}

	h.afterMutation(ctx, feed.EventProductDeleted, product)
	respondJSON(w, http.StatusOK, map[string]string{"deleted": product.ID})
}

// GetFeed serves the reducer's realtime view of a market's products.
func (h *ProductHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reducer.Snapshot(chi.URLParam(r, "marketID")))
}

func (h *ProductHandler) ownedProduct(ctx context.Context, w http.ResponseWriter, user *domain.User, productID string) (*domain.Product, bool) {
	product, err := h.products.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return nil, false
	}
	if err != nil {
		h.log.Error("get product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch product")
		return nil, false
	}
	if product.Owner != user.ID {
		respondError(w, http.StatusForbidden, "not_owner", "only the product owner can modify it")
		return nil, false
	}
	return product, true
}

// afterMutation invalidates the market cache and publishes the feed event.
// Both are best effort; the write already committed.
func (h *ProductHandler) afterMutation(ctx context.Context, eventType feed.EventType, product *domain.Product) {
	if err := h.cache.InvalidateMarket(ctx, product.MarketID); err != nil {
		h.log.Warn("cache invalidation failed",
			zap.String("market_id", product.MarketID), zap.Error(err))
	}
	if err := h.publisher.Publish(ctx, feed.ProductEvent{Type: eventType, Product: *product}); err != nil {
		h.log.Warn("feed publish failed",
			zap.String("product_id", product.ID), zap.Error(err))
	}
}
