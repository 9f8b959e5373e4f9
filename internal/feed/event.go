package feed

import "github.com/saalikmubeen/serverless-marketplace-app/internal/domain"

type EventType string

const (
	EventProductCreated EventType = "product.created"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
)

// ProductEvent is the payload published on every product mutation. Deleted
// events only need the product id and market id populated.
type ProductEvent struct {
	Type    EventType      `json:"type"`
	Product domain.Product `json:"product"`
}
