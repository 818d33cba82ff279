package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item that can appear on an order line. UnitCost and
// UnitPrice are the current values; order projections are always priced
// against them, never against a snapshot taken at order time.
//
// ServiceID references the service the product belongs to (e.g. "Email").
// ServiceName is resolved by the repository join for read convenience.
type Product struct {
	ID          uuid.UUID
	Name        string
	UnitCost    decimal.Decimal
	UnitPrice   decimal.Decimal
	ServiceID   uuid.UUID
	ServiceName string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
}
