package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-service/internal/domain/order"
)

// orderRowsSQL selects orders joined with their status, items, and the
// items' current product and service rows. Reads are priced against the
// product's current unit cost/price, while each item's service reference is
// the one copied at creation time. Items of one order arrive as consecutive
// rows.
const orderRowsSQL = `SELECT o.id, o.customer_id, o.reseller_id, o.status_id, st.name, o.created_at,
		i.id, i.product_id, p.name, p.unit_cost, p.unit_price, i.service_id, sv.name, i.quantity
	FROM orders o
	JOIN order_statuses st ON st.id = o.status_id
	LEFT JOIN order_items i ON i.order_id = o.id
	LEFT JOIN products p ON p.id = i.product_id
	LEFT JOIN services sv ON sv.id = i.service_id`

const (
	listOrdersSQL = orderRowsSQL + `
	ORDER BY o.created_at DESC, o.id, i.id`

	getOrderByIDSQL = orderRowsSQL + `
	WHERE o.id = $1
	ORDER BY i.id`

	listOrdersByStatusSQL = orderRowsSQL + `
	WHERE o.status_id = $1
	ORDER BY o.created_at DESC, o.id, i.id`

	listOrdersByYearAndStatusSQL = orderRowsSQL + `
	WHERE o.status_id = $1 AND o.created_at >= $2 AND o.created_at < $3
	ORDER BY o.created_at DESC, o.id, i.id`

	insertOrderSQL = `INSERT INTO orders (id, customer_id, reseller_id, status_id, created_at)
	VALUES ($1, $2, $3, $4, $5)`

	insertOrderItemSQL = `INSERT INTO order_items (id, order_id, product_id, service_id, quantity)
	VALUES ($1, $2, $3, $4, $5)`

	updateOrderStatusSQL = `UPDATE orders SET status_id = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders with their items, most recent first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return collectOrders(rows)
}

// GetByID returns a single order with its items, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	if len(orders) == 0 {
		return nil, order.ErrNotFound
	}
	return &orders[0], nil
}

// ListByStatus returns orders carrying the given status id, most recent
// first. An unknown status id simply matches nothing.
func (r *OrderRepository) ListByStatus(ctx context.Context, statusID uuid.UUID) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByStatusSQL, statusID)
	if err != nil {
		return nil, fmt.Errorf("listing orders by status %q: %w", statusID, err)
	}
	return collectOrders(rows)
}

// ListByYearAndStatus returns orders with the given status created within
// the half-open window [Jan 1 year, Jan 1 year+1).
func (r *OrderRepository) ListByYearAndStatus(ctx context.Context, year int, statusID uuid.UUID) ([]order.Order, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	rows, err := r.pool.Query(ctx, listOrdersByYearAndStatusSQL, statusID, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing orders for year %d: %w", year, err)
	}
	return collectOrders(rows)
}

// Create persists the order and all of its items in a single transaction.
// Either the whole aggregate is written or nothing is.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (txErr error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if txErr != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("rolling back: %w", rbErr))
			}
		}
	}()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.CustomerID, o.ResellerID, o.StatusID, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			item.ID, o.ID, item.ProductID, item.ServiceID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("inserting order item %q: %w", item.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// UpdateStatus writes the status reference of an existing order. No other
// column is touched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, updateOrderStatusSQL, orderID, statusID)
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", orderID, err)
	}
	return nil
}

// collectOrders groups the joined rows into orders with nested items.
// Rows belonging to one order are consecutive, so a single pass suffices.
func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var (
			o order.Order

			itemID      *uuid.UUID
			productID   *uuid.UUID
			productName *string
			unitCost    *decimal.Decimal
			unitPrice   *decimal.Decimal
			serviceID   *uuid.UUID
			serviceName *string
			quantity    *int32
		)
		err := rows.Scan(
			&o.ID, &o.CustomerID, &o.ResellerID, &o.StatusID, &o.StatusName, &o.CreatedAt,
			&itemID, &productID, &productName, &unitCost, &unitPrice, &serviceID, &serviceName, &quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}

		if len(orders) == 0 || orders[len(orders)-1].ID != o.ID {
			orders = append(orders, o)
		}
		if itemID == nil {
			continue
		}

		last := &orders[len(orders)-1]
		last.Items = append(last.Items, order.Item{
			ID:          *itemID,
			OrderID:     last.ID,
			ProductID:   *productID,
			ProductName: *productName,
			ServiceID:   *serviceID,
			ServiceName: *serviceName,
			UnitCost:    *unitCost,
			UnitPrice:   *unitPrice,
			Quantity:    int(*quantity),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading order rows: %w", err)
	}
	return orders, nil
}
