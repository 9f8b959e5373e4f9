package domain

import "time"

// ShippingAddress mirrors the address fields the payment processor returns
// on a charge source. It is only kept for shipped (not emailed) products.
type ShippingAddress struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Line1   string `json:"address_line1"`
	State   string `json:"address_state"`
	Zip     string `json:"address_zip"`
}

type Order struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	ProductID       string           `json:"product_id"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
