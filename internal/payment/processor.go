package payment

import (
	"context"
	"encoding/json"
)

const StatusSucceeded = "succeeded"

// ChargeParams are passed to the processor verbatim; the relay does not
// validate them beyond decoding.
type ChargeParams struct {
	Source      string
	Amount      int64
	Currency    string
	Description string
}

// ChargeSource holds the billing/shipping address fields the processor
// returns when address collection was enabled on the payment widget.
type ChargeSource struct {
	AddressCity    string `json:"address_city"`
	AddressCountry string `json:"address_country"`
	AddressLine1   string `json:"address_line1"`
	AddressState   string `json:"address_state"`
	AddressZip     string `json:"address_zip"`
}

type Charge struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Amount      int64        `json:"amount"`
	Currency    string       `json:"currency"`
	Description string       `json:"description"`
	Source      ChargeSource `json:"source"`

	// Raw is the processor-native payload, returned untouched by the relay.
	Raw json.RawMessage `json:"-"`
}

func (c *Charge) Succeeded() bool {
	return c.Status == StatusSucceeded
}

// Payload returns the processor-native charge object for relay responses.
func (c *Charge) Payload() json.RawMessage {
	if len(c.Raw) > 0 {
		return c.Raw
	}
	b, _ := json.Marshal(c)
	return b
}

type Processor interface {
	CreateCharge(ctx context.Context, params ChargeParams) (*Charge, error)
}
