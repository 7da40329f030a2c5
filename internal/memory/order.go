package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
)

// OrderStore is an in-memory domain.OrderStore.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates an empty in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[uuid.UUID]*domain.Order)}
}

// Create persists a new order.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.Normalize()
	s.orders[order.ID] = copyOrder(order)
	return nil
}

// Update persists changes to an existing order.
func (s *OrderStore) Update(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	order.Normalize()
	s.orders[order.ID] = copyOrder(order)
	return nil
}

// GetByID retrieves an order by ID.
func (s *OrderStore) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

// GetByNumber retrieves an order by its human-facing number.
func (s *OrderStore) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.Number == number {
			return copyOrder(order), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

// ListByCustomer returns a customer's orders, newest first, optionally
// restricted to one status.
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, order := range s.orders {
		if order.CustomerID != customerID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		out = append(out, copyOrder(order))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyOrder(order *domain.Order) *domain.Order {
	data, _ := json.Marshal(order)
	var out domain.Order
	_ = json.Unmarshal(data, &out)
	return &out
}
