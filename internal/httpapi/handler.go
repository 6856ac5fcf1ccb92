// Package httpapi is the HTTP transport layer: a thin chi router translating
// JSON requests into service calls and domain errors into response codes.
package httpapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/orderdesk/orderdesk/internal/domain/customer"
	"github.com/orderdesk/orderdesk/internal/domain/order"
	"github.com/orderdesk/orderdesk/internal/domain/product"
)

// Handler holds the dependencies for all API routes.
type Handler struct {
	customers    customer.Repository
	products     product.Repository
	orderService *order.Service
	security     *Security
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	customers customer.Repository,
	products product.Repository,
	orderService *order.Service,
	security *Security,
) *Handler {
	return &Handler{
		customers:    customers,
		products:     products,
		orderService: orderService,
		security:     security,
	}
}

// Routes builds the API router. Reads are public; mutations require an API
// key.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/customers/{id}", h.getCustomer)
	r.Get("/orders/{id}", h.getOrder)

	r.Group(func(r chi.Router) {
		r.Use(h.security.RequireAPIKey)
		r.Post("/customers", h.createCustomer)
		r.Post("/products", h.createProduct)
		r.Post("/orders", h.createOrder)
		r.Put("/orders/{id}/status", h.updateOrderStatus)
	})

	return r
}
