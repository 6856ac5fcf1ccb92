package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Validation errors for product creation.
var (
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidPrice     = errors.New("price must not be negative")
)

// Product is a catalog item. Prices are decimal NUMERIC values end to end;
// binary floats are never used for money.
type Product struct {
	ID          int64
	Description string
	Price       decimal.Decimal
}

// Validate checks the structural constraints on a product before it is
// persisted: a non-empty description and a non-negative price.
func (p *Product) Validate() error {
	if p.Description == "" {
		return ErrEmptyDescription
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Create(ctx context.Context, p *Product) error
}
