package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/product"
)

// Order is a customer's purchase record: a caller-supplied total, a
// server-assigned processing date, a status label, and one or more line items.
type Order struct {
	ID         int64
	CustomerID int64
	Customer   *customer.Customer
	Total      decimal.Decimal
	OrderDate  time.Time
	Status     Status
	Items      []Item
}

// Item is a line item linking an order to a product with a requested
// quantity. Items exist only as part of their parent order; the schema
// cascades their deletion with it.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Product   *product.Product
	Quantity  int
}

// Repository defines persistence operations for orders.
//
// Create must persist the order and all of its items in a single database
// transaction: either the full graph is stored or nothing is. On success the
// generated order and item IDs are written back into o.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// GetByIDWithItems returns the order with its items loaded in one round
	// trip, or ErrNotFound.
	GetByIDWithItems(ctx context.Context, id int64) (*Order, error)
	SetStatus(ctx context.Context, id int64, status Status) error
}
