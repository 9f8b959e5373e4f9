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
	"github.com/saalikmubeen/serverless-marketplace-app/internal/repository"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/telemetry"
)

type MarketHandler struct {
	markets  MarketStore
	products ProductStore
	cache    cache.ProductCache
	metrics  *telemetry.Metrics
	log      *zap.Logger
	timeout  time.Duration
}

func NewMarketHandler(markets MarketStore, products ProductStore, productCache cache.ProductCache, metrics *telemetry.Metrics, log *zap.Logger, timeout time.Duration) *MarketHandler {
	return &MarketHandler{
		markets:  markets,
		products: products,
		cache:    productCache,
		metrics:  metrics,
		log:      log,
		timeout:  timeout,
	}
}

type CreateMarketRequestDTO struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type MarketResponseDTO struct {
	*domain.Market
	Products []*domain.Product `json:"products,omitempty"`
}

func (h *MarketHandler) CreateMarket(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateMarketRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "market name is required")
		return
	}
	for _, tag := range req.Tags {
		if !domain.IsValidTag(tag) {
			respondError(w, http.StatusBadRequest, "invalid_tag", "unknown market tag: "+tag)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	market := &domain.Market{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Owner: user.Username,
		Tags:  req.Tags,
	}
	if err := h.markets.CreateMarket(ctx, market); err != nil {
		h.log.Error("create market failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "create_failed", "failed to create market")
		return
	}

	h.log.Info("market created",
		zap.String("market_id", market.ID),
		zap.String("owner", market.Owner),
	)
	respondJSON(w, http.StatusCreated, market)
}

func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
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

	products, err := h.marketProducts(ctx, marketID)
	if err != nil {
		h.log.Error("list market products failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "fetch_failed", "failed to fetch market products")
		return
	}

	respondJSON(w, http.StatusOK, MarketResponseDTO{Market: market, Products: products})
}

func (h *MarketHandler) SearchMarkets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	markets, err := h.markets.SearchMarkets(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("search markets failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "search_failed", "failed to search markets")
		return
	}
	if markets == nil {
		markets = []*domain.Market{}
	}

	respondJSON(w, http.StatusOK, markets)
}

// marketProducts reads through the cache, falling back to the repository.
func (h *MarketHandler) marketProducts(ctx context.Context, marketID string) ([]*domain.Product, error) {
	products, err := h.cache.GetMarketProducts(ctx, marketID)
	if err == nil {
		h.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return products, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		h.log.Warn("product cache read failed", zap.Error(err))
	}
	h.metrics.CacheLookups.WithLabelValues("miss").Inc()

	products, err = h.products.ListProductsByMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if err := h.cache.SetMarketProducts(ctx, marketID, products); err != nil {
		h.log.Warn("product cache write failed", zap.Error(err))
	}
	return products, nil
}
