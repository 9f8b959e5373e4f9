package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/payment"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/telemetry"
)

// ChargeHandler is the charge relay: it forwards the request to the payment
// processor verbatim and reports the result. Exactly one charge attempt per
// call, no retry, no persistence.
type ChargeHandler struct {
	processor payment.Processor
	metrics   *telemetry.Metrics
	log       *zap.Logger
	timeout   time.Duration
}

func NewChargeHandler(processor payment.Processor, metrics *telemetry.Metrics, log *zap.Logger, timeout time.Duration) *ChargeHandler {
	return &ChargeHandler{
		processor: processor,
		metrics:   metrics,
		log:       log,
		timeout:   timeout,
	}
}

type ChargeRequestDTO struct {
	Token  string `json:"token"`
	Charge struct {
		Amount      int64  `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
	} `json:"charge"`
}

type ChargeResponseDTO struct {
	Result json.RawMessage `json:"result"`
}

type chargeErrorDTO struct {
	Error string `json:"error"`
}

func (h *ChargeHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	charge, err := h.processor.CreateCharge(ctx, payment.ChargeParams{
		Source:      req.Token,
		Amount:      req.Charge.Amount,
		Currency:    req.Charge.Currency,
		Description: req.Charge.Description,
	})
	if err != nil {
		// all processor failures are reported uniformly
		h.metrics.ChargesTotal.WithLabelValues("error").Inc()
		h.log.Warn("charge failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, chargeErrorDTO{Error: err.Error()})
		return
	}

	h.metrics.ChargesTotal.WithLabelValues(charge.Status).Inc()
	h.log.Info("charge relayed",
		zap.String("charge_id", charge.ID),
		zap.String("status", charge.Status),
		zap.Int64("amount", req.Charge.Amount),
	)

	respondJSON(w, http.StatusCreated, ChargeResponseDTO{Result: charge.Payload()})
}
