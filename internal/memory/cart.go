// Package memory provides in-process store implementations used by tests
// and single-node development. They honor the same contracts as the
// Postgres stores.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
)

// CartStore is an in-memory domain.CartStore keyed by customer.
type CartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*domain.Cart // keyed by customer ID
}

var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates an empty in-memory cart store.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[uuid.UUID]*domain.Cart)}
}

// GetByCustomer retrieves a deep copy of the customer's cart.
func (s *CartStore) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[customerID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return copyCart(cart), nil
}

// Save upserts the cart keyed by customer.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.CustomerID] = copyCart(cart)
	return nil
}

// Delete removes a cart by cart ID.
func (s *CartStore) Delete(ctx context.Context, cartID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for customerID, cart := range s.carts {
		if cart.ID == cartID {
			delete(s.carts, customerID)
			return nil
		}
	}
	return nil
}

// DeleteExpired removes carts whose soft expiry has passed.
func (s *CartStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for customerID, cart := range s.carts {
		if cart.ExpiresAt.Before(now) {
			delete(s.carts, customerID)
			removed++
		}
	}
	return removed, nil
}

// copyCart deep-copies via JSON so callers never share slices with the store.
func copyCart(cart *domain.Cart) *domain.Cart {
	data, _ := json.Marshal(cart)
	var out domain.Cart
	_ = json.Unmarshal(data, &out)
	return &out
}
