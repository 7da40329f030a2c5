// Package postgres implements the domain store interfaces over PostgreSQL.
//
// Carts and orders are persisted as JSONB documents alongside the indexed
// columns queries filter on. Each logical entity has exactly one source of
// truth here.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castell/luxora/internal/domain"
)

// CartStore is a PostgreSQL-backed domain.CartStore.
type CartStore struct {
	pool *pgxpool.Pool
}

var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a cart store over the given pool.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// GetByCustomer retrieves a customer's cart.
func (s *CartStore) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM carts WHERE customer_id = $1`,
		customerID,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.get", "failed to load cart")
	}

	var cart domain.Cart
	if err := json.Unmarshal(doc, &cart); err != nil {
		return nil, domain.Internal(err, "cart.get", "failed to decode cart document")
	}
	return &cart, nil
}

// Save upserts a cart keyed by customer.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	doc, err := json.Marshal(cart)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to encode cart document")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO carts (id, customer_id, document, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (customer_id) DO UPDATE SET
			document = EXCLUDED.document,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		cart.ID, cart.CustomerID, doc, cart.ExpiresAt, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to save cart")
	}
	return nil
}

// Delete removes a cart.
func (s *CartStore) Delete(ctx context.Context, cartID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return domain.Internal(err, "cart.delete", "failed to delete cart")
	}
	return nil
}

// DeleteExpired removes carts whose soft expiry has passed.
func (s *CartStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE expires_at < $1`, now)
	if err != nil {
		return 0, domain.Internal(err, "cart.delete_expired", "failed to delete expired carts")
	}
	return tag.RowsAffected(), nil
}
