package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Repository lookups when no such order exists.
var ErrNotFound = errors.New("order not found")

// ErrEmptyItems is the business-rule violation for an order request without
// any line items.
var ErrEmptyItems = errors.New("at least one product is required")

// CustomerNotFoundError is the business-rule violation for an order request
// referencing a customer that does not exist.
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}

// ProductNotFoundError is the business-rule violation for a line item
// referencing a product that does not exist. The whole request fails on the
// first unresolvable product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("invalid product code: %d", e.ProductID)
}

// InvalidQuantityError is the business-rule violation for a line item with a
// non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// TotalMismatchError is the business-rule violation raised when total
// verification is enabled and the caller-supplied total does not equal the
// sum of item prices times quantities.
type TotalMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order total %s does not match computed total %s", e.Actual, e.Expected)
}

// NotFoundError is the resource-not-found error raised by UpdateStatus when
// the target order does not exist. It is a distinct kind from the
// business-rule violations above so the transport layer can map it to a
// different response category.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.ID)
}

// IsBusinessViolation reports whether err is one of the caller-correctable
// business-rule violations raised during order placement.
func IsBusinessViolation(err error) bool {
	if errors.Is(err, ErrEmptyItems) {
		return true
	}
	var (
		cnf *CustomerNotFoundError
		pnf *ProductNotFoundError
		iq  *InvalidQuantityError
		tm  *TotalMismatchError
	)
	return errors.As(err, &cnf) || errors.As(err, &pnf) || errors.As(err, &iq) || errors.As(err, &tm)
}
