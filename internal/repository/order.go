package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/order"
	"github.com/orderdesk/orderdesk/internal/domain/product"
)

const (
	createOrderSQL = `INSERT INTO orders (customer_id, total, order_date, status)
	VALUES ($1, $2, $3, $4) RETURNING id`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity)
	VALUES ($1, $2, $3) RETURNING id`

	getOrderWithItemsSQL = `SELECT
		o.id, o.customer_id, o.total, o.order_date, o.status,
		c.name, c.email, c.created_at,
		i.id, i.product_id, i.quantity,
		p.description, p.price
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	LEFT JOIN order_items i ON i.order_id = o.id
	LEFT JOIN products p ON p.id = i.product_id
	WHERE o.id = $1
	ORDER BY i.id`

	setOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and all of its items in one transaction. The
// deferred rollback guarantees that a failure on any item insert also undoes
// the order insert, so a partially written order is never observable.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, createOrderSQL, o.CustomerID, o.Total, o.OrderDate, o.Status).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		item := &o.Items[i]
		batch.Queue(createOrderItemSQL, o.ID, item.ProductID, item.Quantity).QueryRow(func(row pgx.Row) error {
			return row.Scan(&item.ID)
		})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %d: %w", o.ID, err)
	}
	return nil
}

// GetByIDWithItems returns the order together with its customer and item rows
// materialized from a single joined query, or order.ErrNotFound.
func (r *OrderRepository) GetByIDWithItems(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderWithItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	defer rows.Close()

	var o *order.Order
	for rows.Next() {
		var (
			head order.Order
			cust customer.Customer

			itemID    *int64
			productID *int64
			quantity  *int

			description *string
			price       *decimal.Decimal
		)
		err := rows.Scan(
			&head.ID, &head.CustomerID, &head.Total, &head.OrderDate, &head.Status,
			&cust.Name, &cust.Email, &cust.CreatedAt,
			&itemID, &productID, &quantity,
			&description, &price,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order %d: %w", id, err)
		}

		if o == nil {
			cust.ID = head.CustomerID
			head.Customer = &cust
			o = &head
		}

		// Item columns are NULL when the order has no items.
		if itemID == nil {
			continue
		}
		item := order.Item{
			ID:        *itemID,
			OrderID:   o.ID,
			ProductID: *productID,
			Quantity:  *quantity,
		}
		if description != nil && price != nil {
			item.Product = &product.Product{
				ID:          *productID,
				Description: *description,
				Price:       *price,
			}
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading order %d: %w", id, err)
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	return o, nil
}

// SetStatus overwrites the status column of an existing order.
func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, setOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, order.ErrNotFound)
	}
	return nil
}
