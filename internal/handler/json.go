package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-service/internal/domain/order"
	"github.com/xenking/order-service/internal/domain/product"
)

// writeJSON encodes a response body with the given encoder function. Encoding
// happens into a buffer first, so a failure can never produce a half-written
// body.
func writeJSON(w http.ResponseWriter, code int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}

// writeError responds with the {code, message} error shape.
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(code) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// --- Response encoders ---

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339Nano))
}

func encodeSummaryFields(e *jx.Encoder, s order.Summary) {
	e.Field("id", func(e *jx.Encoder) { e.Str(s.ID.String()) })
	e.Field("customerId", func(e *jx.Encoder) { e.Str(s.CustomerID.String()) })
	e.Field("resellerId", func(e *jx.Encoder) { e.Str(s.ResellerID.String()) })
	e.Field("statusId", func(e *jx.Encoder) { e.Str(s.StatusID.String()) })
	e.Field("statusName", func(e *jx.Encoder) { e.Str(s.StatusName) })
	e.Field("itemCount", func(e *jx.Encoder) { e.Int(s.ItemCount) })
	e.Field("totalCost", func(e *jx.Encoder) { encodeDecimal(e, s.TotalCost) })
	e.Field("totalPrice", func(e *jx.Encoder) { encodeDecimal(e, s.TotalPrice) })
	e.Field("createdDate", func(e *jx.Encoder) { encodeTime(e, s.CreatedAt) })
}

func encodeSummary(e *jx.Encoder, s order.Summary) {
	e.Obj(func(e *jx.Encoder) { encodeSummaryFields(e, s) })
}

func encodeSummaries(e *jx.Encoder, summaries []order.Summary) {
	e.Arr(func(e *jx.Encoder) {
		for _, s := range summaries {
			encodeSummary(e, s)
		}
	})
}

func encodeDetail(e *jx.Encoder, d order.Detail) {
	e.Obj(func(e *jx.Encoder) {
		encodeSummaryFields(e, d.Summary)
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range d.Items {
					encodeLineItem(e, it)
				}
			})
		})
	})
}

func encodeLineItem(e *jx.Encoder, it order.LineItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(it.ID.String()) })
		e.Field("orderId", func(e *jx.Encoder) { e.Str(it.OrderID.String()) })
		e.Field("serviceId", func(e *jx.Encoder) { e.Str(it.ServiceID.String()) })
		e.Field("serviceName", func(e *jx.Encoder) { e.Str(it.ServiceName) })
		e.Field("productId", func(e *jx.Encoder) { e.Str(it.ProductID.String()) })
		e.Field("productName", func(e *jx.Encoder) { e.Str(it.ProductName) })
		e.Field("unitCost", func(e *jx.Encoder) { encodeDecimal(e, it.UnitCost) })
		e.Field("unitPrice", func(e *jx.Encoder) { encodeDecimal(e, it.UnitPrice) })
		e.Field("totalCost", func(e *jx.Encoder) { encodeDecimal(e, it.TotalCost) })
		e.Field("totalPrice", func(e *jx.Encoder) { encodeDecimal(e, it.TotalPrice) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
	})
}

func encodeProfitReport(e *jx.Encoder, report []order.ProfitForMonth) {
	e.Arr(func(e *jx.Encoder) {
		for _, row := range report {
			e.Obj(func(e *jx.Encoder) {
				e.Field("month", func(e *jx.Encoder) { e.Int(row.Month) })
				e.Field("monthName", func(e *jx.Encoder) { e.Str(row.MonthName) })
				e.Field("profit", func(e *jx.Encoder) { encodeDecimal(e, row.Profit) })
			})
		}
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID.String()) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("unitCost", func(e *jx.Encoder) { encodeDecimal(e, p.UnitCost) })
		e.Field("unitPrice", func(e *jx.Encoder) { encodeDecimal(e, p.UnitPrice) })
		e.Field("serviceId", func(e *jx.Encoder) { e.Str(p.ServiceID.String()) })
		e.Field("serviceName", func(e *jx.Encoder) { e.Str(p.ServiceName) })
	})
}

// --- Request decoders ---

// decodeUUID reads a string UUID value; JSON null yields uuid.Nil so the
// domain can report the field as missing.
func decodeUUID(d *jx.Decoder, dst *uuid.UUID) error {
	if d.Next() == jx.Null {
		*dst = uuid.Nil
		return d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

func decodeNewOrder(data []byte) (order.NewOrder, error) {
	var in order.NewOrder
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "customerId":
			return decodeUUID(d, &in.CustomerID)
		case "resellerId":
			return decodeUUID(d, &in.ResellerID)
		case "items":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				var it order.NewItem
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "productId":
						return decodeUUID(d, &it.ProductID)
					case "quantity":
						n, err := d.Int()
						it.Quantity = n
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				in.Items = append(in.Items, it)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return in, err
}

func decodeStatusUpdate(data []byte) (uuid.UUID, error) {
	var statusID uuid.UUID
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "statusId":
			return decodeUUID(d, &statusID)
		default:
			return d.Skip()
		}
	})
	return statusID, err
}
