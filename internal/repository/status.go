package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/order-service/internal/domain/status"
)

const (
	getStatusByNameSQL = `SELECT id, name FROM order_statuses WHERE name = $1`

	statusExistsSQL = `SELECT EXISTS (SELECT 1 FROM order_statuses WHERE id = $1)`
)

var _ status.Repository = (*StatusRepository)(nil)

// StatusRepository implements status.Repository backed by PostgreSQL.
type StatusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository returns a StatusRepository that uses the given pool.
func NewStatusRepository(pool *pgxpool.Pool) *StatusRepository {
	return &StatusRepository{pool: pool}
}

// GetByName returns the status with the given name, or status.ErrNotFound.
func (r *StatusRepository) GetByName(ctx context.Context, name string) (*status.Status, error) {
	var st status.Status
	err := r.pool.QueryRow(ctx, getStatusByNameSQL, name).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("getting status %q: %w", name, err)
	}
	return &st, nil
}

// ExistsByID reports whether a status row with the given id exists.
func (r *StatusRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, statusExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking status %q: %w", id, err)
	}
	return exists, nil
}
