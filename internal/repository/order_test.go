//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/order"
	"github.com/orderdesk/orderdesk/internal/domain/product"
)

// startPool runs a throwaway postgres container, applies the schema, and
// returns a connected pool.
func startPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     "orders",
				"POSTGRES_PASSWORD": "orders",
				"POSTGRES_DB":       "orders",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://orders:orders@%s:%s/orders?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func seedCustomerAndProduct(t *testing.T, pool *pgxpool.Pool) (customer.Customer, product.Product) {
	t.Helper()
	ctx := context.Background()

	c := customer.Customer{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, NewCustomerRepository(pool).Create(ctx, &c))

	p := product.Product{Description: "Keyboard", Price: decimal.RequireFromString("14.99")}
	require.NoError(t, NewProductRepository(pool).Create(ctx, &p))

	return c, p
}

func TestOrderRepositoryCreate(t *testing.T) {
	pool := startPool(t)
	ctx := context.Background()
	c, p := seedCustomerAndProduct(t, pool)

	o := &order.Order{
		CustomerID: c.ID,
		Total:      decimal.RequireFromString("29.98"),
		OrderDate:  time.Now(),
		Status:     order.StatusSuccess,
		Items:      []order.Item{{ProductID: p.ID, Quantity: 2}},
	}
	require.NoError(t, NewOrderRepository(pool).Create(ctx, o))

	assert.NotZero(t, o.ID, "generated order id is written back")
	require.Len(t, o.Items, 1)
	assert.NotZero(t, o.Items[0].ID, "generated item id is written back")
	assert.Equal(t, o.ID, o.Items[0].OrderID)
}

func TestOrderRepositoryCreate_RollsBackOnItemFailure(t *testing.T) {
	pool := startPool(t)
	ctx := context.Background()
	c, p := seedCustomerAndProduct(t, pool)

	// The second item references a product row that does not exist, so its
	// insert violates the foreign key after the order row and first item have
	// already been written inside the transaction.
	o := &order.Order{
		CustomerID: c.ID,
		Total:      decimal.RequireFromString("29.98"),
		OrderDate:  time.Now(),
		Status:     order.StatusSuccess,
		Items: []order.Item{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: 99999999, Quantity: 1},
		},
	}
	require.Error(t, NewOrderRepository(pool).Create(ctx, o))

	var orderCount, itemCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orderCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM order_items`).Scan(&itemCount))
	assert.Zero(t, orderCount, "the order row must not survive the rollback")
	assert.Zero(t, itemCount, "no item row may survive the rollback")
}

func TestOrderRepositorySetStatus_MissingOrder(t *testing.T) {
	pool := startPool(t)

	err := NewOrderRepository(pool).SetStatus(context.Background(), 404, order.StatusCancelled)

	require.Error(t, err)
	assert.True(t, errors.Is(err, order.ErrNotFound))
}
