package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/product"
)

// ItemRequest is a single requested line item.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderRequest holds the input for placing an order. The total is
// caller-supplied and, unless verification is enabled, trusted as-is.
type PlaceOrderRequest struct {
	CustomerID int64
	Total      decimal.Decimal
	Items      []ItemRequest
}

// Service encapsulates the order placement and status update workflow. It is
// the only component with business rules: referential validation of the
// customer and every product, the minimum-one-item invariant, and atomic
// persistence of the order graph.
type Service struct {
	customers customer.Repository
	products  product.Repository
	orders    Repository

	verifyTotal bool
	now         func() time.Time
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithTotalVerification makes Place recompute the order total from item
// prices and quantities and reject requests whose caller-supplied total does
// not match. Off by default: the upstream caller owns pricing.
func WithTotalVerification() Option {
	return func(s *Service) { s.verifyTotal = true }
}

// WithClock overrides the time source used for order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an order Service with the required repositories.
func NewService(customers customer.Repository, products product.Repository, orders Repository, opts ...Option) *Service {
	s := &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place validates the request, materializes the order graph, and persists it
// atomically.
//
// Validation is fail-fast with no partial processing: a missing customer, an
// empty item list, a non-positive quantity, or any unresolvable product fails
// the whole request, and the repository transaction guarantees no order or
// item row survives a failure during persistence.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	cust, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, &CustomerNotFoundError{CustomerID: req.CustomerID}
		}
		return nil, errors.Wrapf(err, "get customer %d", req.CustomerID)
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities and collect product IDs for a single batch fetch.
	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	productMap := make(map[int64]*product.Product, len(fetched))
	for i := range fetched {
		productMap[fetched[i].ID] = &fetched[i]
	}

	o := &Order{
		CustomerID: cust.ID,
		Customer:   cust,
		Total:      req.Total,
		OrderDate:  s.now(),
		Status:     StatusSuccess,
		Items:      make([]Item, len(req.Items)),
	}

	// Build one item per request entry, failing on the first product id that
	// did not resolve.
	for i, item := range req.Items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		o.Items[i] = Item{
			ProductID: p.ID,
			Product:   p,
			Quantity:  item.Quantity,
		}
	}

	if s.verifyTotal {
		if err := verifyTotal(o); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// GetOrderInfo returns the order with its items eagerly loaded, or (nil, nil)
// when no such order exists. Absence is not an error here; only UpdateStatus
// treats a missing order as a failure.
func (s *Service) GetOrderInfo(ctx context.Context, id int64) (*Order, error) {
	o, err := s.orders.GetByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return o, nil
}

// UpdateStatus locates the order, overwrites its status unconditionally, and
// returns the updated order. There is no transition table: any status may
// replace any other. A missing order id is a NotFoundError.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	o, err := s.orders.GetByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		return nil, errors.Wrapf(err, "set status of order %d", id)
	}

	o.Status = status
	return o, nil
}

// verifyTotal recomputes the order total from item prices and quantities and
// compares it with the caller-supplied value.
func verifyTotal(o *Order) error {
	computed := decimal.Zero
	for _, item := range o.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		computed = computed.Add(item.Product.Price.Mul(qty))
	}
	if !computed.Equal(o.Total) {
		return &TotalMismatchError{Expected: computed, Actual: o.Total}
	}
	return nil
}
