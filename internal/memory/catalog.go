package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/castell/luxora/internal/domain"
)

// Catalog is an in-memory domain.Catalog seeded with products.
type Catalog struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
}

var _ domain.Catalog = (*Catalog)(nil)

// NewCatalog creates a catalog over the given products.
func NewCatalog(products []domain.Product) *Catalog {
	m := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &Catalog{products: m}
}

// GetProduct returns a product by ID, or domain.ErrProductNotFound.
func (c *Catalog) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// IsAvailable reports whether the product is active with enough stock.
func (c *Catalog) IsAvailable(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	p, err := c.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return p.Status == domain.ProductActive && p.StockQuantity >= quantity, nil
}

// SetStock overwrites a product's stock level. Unknown IDs are ignored.
func (c *Catalog) SetStock(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	if !ok {
		return
	}
	p.StockQuantity = quantity
	c.products[productID] = p
}
