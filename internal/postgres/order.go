package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castell/luxora/internal/domain"
)

// OrderStore is a PostgreSQL-backed domain.OrderStore.
// Orders are insert-and-update only; rows are never deleted.
type OrderStore struct {
	pool *pgxpool.Pool
}

var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates an order store over the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Create persists a new order. Derived pricing is recomputed before write.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	order.Normalize()

	doc, err := json.Marshal(order)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to encode order document")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (id, order_number, customer_id, status, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.Number, order.CustomerID, string(order.Status), doc,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to create order")
	}
	return nil
}

// Update persists status, timeline, refund, and return changes.
func (s *OrderStore) Update(ctx context.Context, order *domain.Order) error {
	order.Normalize()

	doc, err := json.Marshal(order)
	if err != nil {
		return domain.Internal(err, "order.update", "failed to encode order document")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE orders SET status = $2, document = $3, updated_at = $4
		WHERE id = $1`,
		order.ID, string(order.Status), doc, order.UpdatedAt,
	)
	if err != nil {
		return domain.Internal(err, "order.update", "failed to update order")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// GetByID retrieves an order by ID.
func (s *OrderStore) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.get(ctx, `SELECT document FROM orders WHERE id = $1`, orderID)
}

// GetByNumber retrieves an order by its human-facing number.
func (s *OrderStore) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.get(ctx, `SELECT document FROM orders WHERE order_number = $1`, number)
}

func (s *OrderStore) get(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, query, arg).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to load order")
	}

	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, domain.Internal(err, "order.get", "failed to decode order document")
	}
	return &order, nil
}

// ListByCustomer returns a customer's orders, newest first, optionally
// restricted to one status.
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error) {
	query := `SELECT document FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	args := []any{customerID}
	if status != "" {
		query = `SELECT document FROM orders WHERE customer_id = $1 AND status = $2 ORDER BY created_at DESC`
		args = append(args, string(status))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order row")
		}
		var order domain.Order
		if err := json.Unmarshal(doc, &order); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to decode order document")
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to iterate order rows")
	}
	return orders, nil
}
