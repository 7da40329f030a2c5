package domain

import (
	"context"

	"github.com/google/uuid"
)

// Product domain errors.
var (
	ErrProductNotFound    = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrProductUnavailable = &Error{Code: ECONFLICT, Message: "Product is not available for purchase"}
	ErrInsufficientStock  = &Error{Code: ECONFLICT, Message: "Insufficient stock for requested quantity"}
)

// ProductStatus values recognized by the cart.
const (
	ProductActive   = "active"
	ProductArchived = "archived"
)

// Product is the catalog view the cart and checkout need: current price,
// status, and stock. The full catalog (descriptions, media, categories) is
// an external concern.
type Product struct {
	ID            uuid.UUID
	Name          string
	SKU           string
	PriceCents    int64
	Status        string
	StockQuantity int
	ImageURL      string
}

// Catalog resolves product identifiers for cart additions and checkout
// validation.
type Catalog interface {
	// GetProduct returns a product by ID, or ErrProductNotFound.
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)

	// IsAvailable reports whether the product is active with at least the
	// requested quantity in stock.
	IsAvailable(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
}
