// Package status holds the order status reference data consumed by the
// order domain. Statuses live in the database and are immutable at runtime;
// the well-known names below are required for the service to operate.
package status

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Well-known status names. "Created" is assigned to every new order;
// "Completed" drives the monthly profit report. Both rows must exist in the
// database — their absence is a deployment problem, not a user error.
const (
	Created   = "Created"
	Completed = "Completed"
)

// ErrNotFound is returned when no status matches the requested name.
var ErrNotFound = errors.New("status not found")

// Status is a named order lifecycle state.
type Status struct {
	ID   uuid.UUID
	Name string
}

// Repository defines read operations for status reference data.
type Repository interface {
	GetByName(ctx context.Context, name string) (*Status, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
