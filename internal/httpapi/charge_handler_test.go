package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/payment"
	"github.com/saalikmubeen/serverless-marketplace-app/internal/telemetry"
)

// StubProcessor implements payment.Processor for testing.
type StubProcessor struct {
	Charge *payment.Charge
	Err    error
	Calls  int
	Params payment.ChargeParams
}

func (s *StubProcessor) CreateCharge(_ context.Context, params payment.ChargeParams) (*payment.Charge, error) {
	s.Calls++
	s.Params = params
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Charge, nil
}

func newChargeHandler(stub *StubProcessor) *ChargeHandler {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return NewChargeHandler(stub, metrics, zap.NewNop(), 5*time.Second)
}

func postCharge(t *testing.T, handler *ChargeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/charge", bytes.NewBufferString(body))
	handler.CreateCharge(recorder, request)
	return recorder
}

func TestCreateCharge_RelaysProcessorResult(t *testing.T) {
	raw := []byte(`{"id":"ch_1","status":"succeeded","source":{"address_city":"Pune","address_country":"IN","address_line1":"MG Road","address_state":"MH","address_zip":"411001"}}`)
	stub := &StubProcessor{
		Charge: &payment.Charge{ID: "ch_1", Status: "succeeded", Raw: raw},
	}
	handler := newChargeHandler(stub)

	recorder := postCharge(t, handler, `{"token":"tok_1","charge":{"amount":500,"currency":"INR","description":"Widget"}}`)

	require.Equal(t, http.StatusCreated, recorder.Code)

	// fields pass through to the processor verbatim
	assert.Equal(t, "tok_1", stub.Params.Source)
	assert.Equal(t, int64(500), stub.Params.Amount)
	assert.Equal(t, "INR", stub.Params.Currency)
	assert.Equal(t, "Widget", stub.Params.Description)

	var response ChargeResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.JSONEq(t, string(raw), string(response.Result))
}

func TestCreateCharge_NonSucceededStatusStillRelayed(t *testing.T) {
	// the relay does not branch on charge status; that is the caller's job
	raw := []byte(`{"id":"ch_2","status":"pending"}`)
	stub := &StubProcessor{Charge: &payment.Charge{ID: "ch_2", Status: "pending", Raw: raw}}
	handler := newChargeHandler(stub)

	recorder := postCharge(t, handler, `{"token":"tok_2","charge":{"amount":100,"currency":"INR","description":"x"}}`)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response ChargeResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.JSONEq(t, string(raw), string(response.Result))
}

func TestCreateCharge_ProcessorErrorReportedUniformly(t *testing.T) {
	stub := &StubProcessor{Err: errors.New("card_declined")}
	handler := newChargeHandler(stub)

	recorder := postCharge(t, handler, `{"token":"tok_1","charge":{"amount":500,"currency":"INR","description":"Widget"}}`)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var response chargeErrorDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "card_declined", response.Error)
	assert.Equal(t, 1, stub.Calls)
}

func TestCreateCharge_SingleAttemptPerRequest(t *testing.T) {
	stub := &StubProcessor{Err: errors.New("timeout")}
	handler := newChargeHandler(stub)

	postCharge(t, handler, `{"token":"tok_1","charge":{"amount":500,"currency":"INR","description":"Widget"}}`)

	assert.Equal(t, 1, stub.Calls, "relay must never retry a charge")
}

func TestCreateCharge_InvalidJSON(t *testing.T) {
	stub := &StubProcessor{}
	handler := newChargeHandler(stub)

	recorder := postCharge(t, handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 0, stub.Calls)
}
