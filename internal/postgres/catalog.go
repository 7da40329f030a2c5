package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castell/luxora/internal/domain"
)

// Catalog is a PostgreSQL-backed domain.Catalog.
type Catalog struct {
	pool *pgxpool.Pool
}

var _ domain.Catalog = (*Catalog)(nil)

// NewCatalog creates a catalog over the given pool.
func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// GetProduct returns a product by ID, or domain.ErrProductNotFound.
func (c *Catalog) GetProduct(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := c.pool.QueryRow(ctx, `
		SELECT id, name, sku, price_cents, status, stock_quantity, COALESCE(image_url, '')
		FROM products WHERE id = $1`,
		productID,
	).Scan(&p.ID, &p.Name, &p.SKU, &p.PriceCents, &p.Status, &p.StockQuantity, &p.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get_product", "failed to load product")
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
