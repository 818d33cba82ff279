package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a customer order as loaded from storage. StatusName and the
// per-item product and service fields are resolved by the repository join,
// so every read reflects the current reference data.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ResellerID uuid.UUID
	StatusID   uuid.UUID
	StatusName string
	CreatedAt  time.Time
	Items      []Item
}

// Item is a single order line. ServiceID is copied from the product when the
// order is created and never re-derived, so the line keeps pointing at the
// service the product belonged to at order time.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ServiceID   uuid.UUID
	ServiceName string
	UnitCost    decimal.Decimal
	UnitPrice   decimal.Decimal
	Quantity    int
}

// totals sums quantity × unit cost and quantity × unit price over all lines.
func (o Order) totals() (cost, price decimal.Decimal) {
	for _, it := range o.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		cost = cost.Add(it.UnitCost.Mul(qty))
		price = price.Add(it.UnitPrice.Mul(qty))
	}
	return cost, price
}

// NewOrder holds the input for creating an order.
type NewOrder struct {
	CustomerID uuid.UUID
	ResellerID uuid.UUID
	Items      []NewItem
}

// NewItem is a requested order line. Quantity must be positive; the boundary
// layer enforces that before the request reaches the service.
type NewItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Repository defines persistence operations for orders.
//
// List and ListByStatus return orders most recent first.
// ListByYearAndStatus fetches orders created within [Jan 1 year, Jan 1 year+1).
// Create persists the order and all of its items atomically.
// UpdateStatus writes only the status reference of an existing order.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByStatus(ctx context.Context, statusID uuid.UUID) ([]Order, error)
	ListByYearAndStatus(ctx context.Context, year int, statusID uuid.UUID) ([]Order, error)
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error
}
