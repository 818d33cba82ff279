package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-service/internal/domain/product"
	"github.com/xenking/order-service/internal/domain/status"
)

// Sentinel errors for order validation.
var (
	ErrInvalidCustomer = errors.New("customer id is required")
	ErrInvalidReseller = errors.New("reseller id is required")
	ErrEmptyItems      = errors.New("order must have at least one line item")
	ErrInvalidStatus   = errors.New("status id is invalid")
	ErrMissingProduct  = errors.New("product id must be supplied")
)

// InvalidProductError indicates an order line references a product that does
// not exist in the catalog.
type InvalidProductError struct {
	ProductID uuid.UUID
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("invalid order product id: %s", e.ProductID)
}

// StatusNotConfiguredError indicates a required reference status row is
// missing from the database. This is a deployment problem, not bad input.
type StatusNotConfiguredError struct {
	Name string
}

func (e *StatusNotConfiguredError) Error() string {
	return fmt.Sprintf("required order status %q is not configured", e.Name)
}

// Service encapsulates order business logic: creation, status transition,
// summary/detail projection, and the monthly profit report.
type Service struct {
	orders   Repository
	statuses status.Repository
	products product.Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	orders Repository,
	statuses status.Repository,
	products product.Repository,
) *Service {
	return &Service{
		orders:   orders,
		statuses: statuses,
		products: products,
	}
}

// List returns summaries of all orders, most recent first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return lo.Map(all, func(o Order, _ int) Summary { return summarize(o) }), nil
}

// GetByID returns the detail projection of one order, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", id)
	}
	d := detail(*o)
	return &d, nil
}

// ListByStatus returns summaries of orders carrying the given status, most
// recent first. A status id that matches nothing yields an empty slice; the
// id is deliberately not checked against the status table on this read path.
func (s *Service) ListByStatus(ctx context.Context, statusID uuid.UUID) ([]Summary, error) {
	matched, err := s.orders.ListByStatus(ctx, statusID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by status")
	}
	return lo.Map(matched, func(o Order, _ int) Summary { return summarize(o) }), nil
}

// UpdateStatus moves an order to a new status. Any existing status is a valid
// target; no transition graph is enforced. Only the status reference changes.
func (s *Service) UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return errors.Wrapf(err, "get order %s", orderID)
	}

	if statusID == uuid.Nil {
		return ErrInvalidStatus
	}
	exists, err := s.statuses.ExistsByID(ctx, statusID)
	if err != nil {
		return errors.Wrap(err, "check status")
	}
	if !exists {
		return ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, orderID, statusID); err != nil {
		return errors.Wrap(err, "update order status")
	}
	return nil
}

// Create validates the input, assembles the order aggregate with the
// "Created" status, persists it atomically, and returns the new order id.
//
// Validation is sequential and the first failing rule wins: customer,
// reseller, non-empty items, then each line's product in order.
func (s *Service) Create(ctx context.Context, in NewOrder) (uuid.UUID, error) {
	if in.CustomerID == uuid.Nil {
		return uuid.Nil, ErrInvalidCustomer
	}
	if in.ResellerID == uuid.Nil {
		return uuid.Nil, ErrInvalidReseller
	}
	if len(in.Items) == 0 {
		return uuid.Nil, ErrEmptyItems
	}

	created, err := s.statuses.GetByName(ctx, status.Created)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return uuid.Nil, &StatusNotConfiguredError{Name: status.Created}
		}
		return uuid.Nil, errors.Wrap(err, "get created status")
	}

	o := &Order{
		ID:         uuid.New(),
		CustomerID: in.CustomerID,
		ResellerID: in.ResellerID,
		StatusID:   created.ID,
		StatusName: created.Name,
		CreatedAt:  time.Now(),
	}

	for _, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return uuid.Nil, ErrMissingProduct
		}

		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return uuid.Nil, &InvalidProductError{ProductID: item.ProductID}
			}
			return uuid.Nil, errors.Wrapf(err, "get product %s", item.ProductID)
		}

		o.Items = append(o.Items, Item{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: p.ID,
			ServiceID: p.ServiceID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return uuid.Nil, errors.Wrap(err, "create order")
	}
	return o.ID, nil
}

// MonthlyProfit reports profit (price minus cost over all lines) of completed
// orders for every month of the given year. The report always has twelve
// entries, January through December; empty months report zero.
func (s *Service) MonthlyProfit(ctx context.Context, year int) ([]ProfitForMonth, error) {
	completed, err := s.statuses.GetByName(ctx, status.Completed)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, &StatusNotConfiguredError{Name: status.Completed}
		}
		return nil, errors.Wrap(err, "get completed status")
	}

	matched, err := s.orders.ListByYearAndStatus(ctx, year, completed.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list completed orders")
	}

	report := make([]ProfitForMonth, 0, 12)
	for month := time.January; month <= time.December; month++ {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		profit := decimal.Zero
		for _, o := range matched {
			// Strictly after the month start: an order stamped exactly at
			// midnight on the 1st is not counted for that month.
			if o.CreatedAt.After(start) && o.CreatedAt.Before(end) {
				for _, it := range o.Items {
					qty := decimal.NewFromInt(int64(it.Quantity))
					profit = profit.Add(it.UnitPrice.Sub(it.UnitCost).Mul(qty))
				}
			}
		}

		report = append(report, ProfitForMonth{
			Month:     int(month),
			MonthName: month.String(),
			Profit:    profit,
		})
	}
	return report, nil
}
