package feed

import (
	"sync"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

// Reducer merges product events into an ordered collection keyed by product
// id: created appends, updated replaces in place, deleted removes. Events
// are applied by a single consumer goroutine; the mutex only guards
// snapshot reads.
type Reducer struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
}

func NewReducer() *Reducer {
	return &Reducer{
		products: make(map[string]domain.Product),
	}
}

func (r *Reducer) Apply(event ProductEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := event.Product.ID
	switch event.Type {
	case EventProductCreated:
		if _, exists := r.products[id]; !exists {
			r.order = append(r.order, id)
		}
		r.products[id] = event.Product
	case EventProductUpdated:
		// updates for unknown products are dropped, not appended
		if _, exists := r.products[id]; exists {
			r.products[id] = event.Product
		}
	case EventProductDeleted:
		if _, exists := r.products[id]; exists {
			delete(r.products, id)
			for i, existing := range r.order {
				if existing == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		}
	}
}

// Snapshot returns the market's products in insertion order.
func (r *Reducer) Snapshot(marketID string) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0)
	for _, id := range r.order {
		if p := r.products[id]; p.MarketID == marketID {
			products = append(products, p)
		}
	}
	return products
}

func (r *Reducer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
