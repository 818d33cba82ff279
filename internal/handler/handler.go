// Package handler exposes the order service over HTTP. It is a thin
// boundary: it decodes requests, delegates to the domain, and maps domain
// errors to status codes. All payloads are encoded with go-faster/jx.
package handler

import (
	"net/http"

	"github.com/xenking/order-service/internal/domain/order"
	"github.com/xenking/order-service/internal/domain/product"
)

// Handler serves the order and catalog endpoints.
type Handler struct {
	orders   *order.Service
	products product.Repository
}

// New constructs a Handler with the required domain dependencies.
func New(orders *order.Service, products product.Repository) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
	}
}

// Routes returns a mux with all API routes registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders/bystatus/{statusId}", h.listOrdersByStatus)
	mux.HandleFunc("GET /orders/profit/{year}", h.profitReport)
	mux.HandleFunc("GET /orders/{orderId}", h.getOrder)
	mux.HandleFunc("PATCH /orders/{orderId}", h.updateOrderStatus)

	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("GET /products/{productId}", h.getProduct)

	return mux
}
