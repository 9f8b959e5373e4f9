package domain

import "time"

// Product price is stored in minor currency units (cents, paise).
type Product struct {
	ID          string    `json:"id"`
	MarketID    string    `json:"market_id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Shipped     bool      `json:"shipped"`
	FileKey     string    `json:"file_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
