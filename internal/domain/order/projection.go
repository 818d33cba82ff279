package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the list projection of an order. Totals are computed from the
// current product unit cost/price carried on each loaded item.
type Summary struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ResellerID uuid.UUID
	StatusID   uuid.UUID
	StatusName string
	ItemCount  int
	TotalCost  decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// Detail is the single-order projection: the summary plus every line.
type Detail struct {
	Summary

	Items []LineItem
}

// LineItem is the detail projection of one order line, including per-line
// totals.
type LineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string
	ProductID   uuid.UUID
	ProductName string
	UnitCost    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalCost   decimal.Decimal
	TotalPrice  decimal.Decimal
	Quantity    int
}

// ProfitForMonth is one row of the yearly profit report.
type ProfitForMonth struct {
	Month     int
	MonthName string
	Profit    decimal.Decimal
}

func summarize(o Order) Summary {
	cost, price := o.totals()
	return Summary{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		ResellerID: o.ResellerID,
		StatusID:   o.StatusID,
		StatusName: o.StatusName,
		ItemCount:  len(o.Items),
		TotalCost:  cost,
		TotalPrice: price,
		CreatedAt:  o.CreatedAt,
	}
}

func detail(o Order) Detail {
	items := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		items[i] = LineItem{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ServiceID:   it.ServiceID,
			ServiceName: it.ServiceName,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitCost:    it.UnitCost,
			UnitPrice:   it.UnitPrice,
			TotalCost:   it.UnitCost.Mul(qty),
			TotalPrice:  it.UnitPrice.Mul(qty),
			Quantity:    it.Quantity,
		}
	}
	return Detail{
		Summary: summarize(o),
		Items:   items,
	}
}
