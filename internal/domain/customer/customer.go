package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is an account that orders are placed against. The order workflow
// only ever reads customers; they are created and managed separately.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Repository defines persistence operations for customers.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
}
