package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Client talks to a Stripe-style charges API over HTTPS. A single call makes
// exactly one charge attempt; there is no retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Charge]
	log        *zap.Logger
}

type processorError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "payment-processor",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*Charge](settings),
		log:     log,
	}
}

func (c *Client) CreateCharge(ctx context.Context, params ChargeParams) (*Charge, error) {
	return c.breaker.Execute(func() (*Charge, error) {
		return c.createCharge(ctx, params)
	})
}

func (c *Client) createCharge(ctx context.Context, params ChargeParams) (*Charge, error) {
	form := url.Values{}
	form.Set("source", params.Source)
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", params.Currency)
	form.Set("description", params.Description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read charge response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var perr processorError
		if jsonErr := json.Unmarshal(body, &perr); jsonErr == nil && perr.Error.Message != "" {
			c.log.Warn("charge refused by processor",
				zap.String("type", perr.Error.Type),
				zap.String("code", perr.Error.Code),
			)
			return nil, fmt.Errorf("%s", perr.Error.Message)
		}
		return nil, fmt.Errorf("processor returned status %d", resp.StatusCode)
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}
	charge.Raw = body

	return &charge, nil
}
