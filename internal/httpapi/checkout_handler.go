package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/checkout"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

type CheckoutHandler struct {
	service *checkout.Service
	log     *zap.Logger
}

func NewCheckoutHandler(service *checkout.Service, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log}
}

type CheckoutRequestDTO struct {
	ProductID string `json:"product_id"`
	Token     string `json:"token"`
}

type CheckoutResponseDTO struct {
	Order     *domain.Order `json:"order"`
	Duplicate bool          `json:"duplicate,omitempty"`
	Message   string        `json:"message"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyer := userFromContext(r.Context())
	if buyer == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" || req.Token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id and token are required")
		return
	}

	result, err := h.service.Checkout(r.Context(), &checkout.Request{
		Buyer:          buyer,
		ProductID:      req.ProductID,
		Token:          req.Token,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Order:     result.Order,
		Duplicate: result.Duplicate,
		Message:   "Order placed successfully. Check your verified email for order details.",
	})
}

// each checkout failure kind gets its own status and message
func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, checkout.ErrOwnProduct):
		respondError(w, http.StatusConflict, "own_product", "you cannot purchase your own product")
	case errors.Is(err, checkout.ErrEmailNotVerified):
		respondError(w, http.StatusForbidden, "email_not_verified", "verify your email before purchasing")
	case errors.Is(err, checkout.ErrSellerLookup):
		respondError(w, http.StatusInternalServerError, "seller_lookup_failed", "could not look up the seller")
	case errors.Is(err, checkout.ErrChargeDeclined):
		respondError(w, http.StatusPaymentRequired, "charge_declined", "your payment was declined")
	case errors.Is(err, checkout.ErrChargeFailed):
		respondError(w, http.StatusBadGateway, "charge_failed", "the payment processor could not be reached")
	case errors.Is(err, checkout.ErrOrderCreate):
		respondError(w, http.StatusInternalServerError, "order_failed", "payment succeeded but the order could not be recorded")
	default:
		h.log.Error("checkout failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "checkout_failed", "checkout failed")
	}
}
