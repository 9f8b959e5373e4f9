package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "sk_test_key", 5*time.Second, zap.NewNop())
	return client, server
}

func TestCreateCharge_Success(t *testing.T) {
	payload := `{
		"id": "ch_123",
		"status": "succeeded",
		"amount": 500,
		"currency": "inr",
		"description": "Widget",
		"source": {
			"address_city": "Pune",
			"address_country": "IN",
			"address_line1": "MG Road",
			"address_state": "MH",
			"address_zip": "411001"
		}
	}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tok_1", r.PostForm.Get("source"))
		assert.Equal(t, "500", r.PostForm.Get("amount"))
		assert.Equal(t, "INR", r.PostForm.Get("currency"))
		assert.Equal(t, "Widget", r.PostForm.Get("description"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	charge, err := client.CreateCharge(context.Background(), ChargeParams{
		Source:      "tok_1",
		Amount:      500,
		Currency:    "INR",
		Description: "Widget",
	})
	require.NoError(t, err)

	assert.Equal(t, "ch_123", charge.ID)
	assert.True(t, charge.Succeeded())
	assert.Equal(t, "Pune", charge.Source.AddressCity)
	assert.Equal(t, "IN", charge.Source.AddressCountry)
	assert.Equal(t, "MG Road", charge.Source.AddressLine1)
	assert.Equal(t, "MH", charge.Source.AddressState)
	assert.Equal(t, "411001", charge.Source.AddressZip)
	assert.JSONEq(t, payload, string(charge.Raw))
}

func TestCreateCharge_ProcessorError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"type": "card_error", "code": "card_declined", "message": "card_declined"}}`))
	})

	charge, err := client.CreateCharge(context.Background(), ChargeParams{Source: "tok_1", Amount: 500, Currency: "INR"})
	require.Error(t, err)
	assert.Nil(t, charge)
	assert.Equal(t, "card_declined", err.Error())
}

func TestCreateCharge_NonJSONError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.CreateCharge(context.Background(), ChargeParams{Source: "tok_1", Amount: 500, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processor returned status 502")
}

func TestCreateCharge_NetworkFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.CreateCharge(context.Background(), ChargeParams{Source: "tok_1", Amount: 500, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charge request failed")
}

func TestCreateCharge_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	for i := 0; i < 5; i++ {
		_, err := client.CreateCharge(context.Background(), ChargeParams{Source: "tok_1", Amount: 500, Currency: "INR"})
		require.Error(t, err)
	}

	_, err := client.CreateCharge(context.Background(), ChargeParams{Source: "tok_1", Amount: 500, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}
