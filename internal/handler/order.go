package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/order-service/internal/domain/order"
)

// listOrders returns summaries of all orders, most recent first.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.orders.List(r.Context())
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSummaries(e, summaries) })
}

// getOrder returns the detail of one order, or 404.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	d, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeDetail(e, *d) })
}

// listOrdersByStatus returns summaries filtered by status id. A status id
// matching nothing yields an empty list, not an error.
func (h *Handler) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	statusID, err := uuid.Parse(r.PathValue("statusId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status id")
		return
	}

	summaries, err := h.orders.ListByStatus(r.Context(), statusID)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSummaries(e, summaries) })
}

// updateOrderStatus moves an order to a new status.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("orderId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	statusID, err := decodeStatusUpdate(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, statusID); err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// createOrder validates and creates a new order, returning its id.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	in, err := decodeNewOrder(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Quantity is a structural precondition of the input model, checked
	// before the request reaches the service.
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("quantity must be greater than 0 for product %s", item.ProductID))
			return
		}
	}

	id, err := h.orders.Create(r.Context(), in)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("id", func(e *jx.Encoder) { e.Str(id.String()) })
		})
	})
}

// profitReport returns the twelve-month profit report for a year.
func (h *Handler) profitReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	report, err := h.orders.MonthlyProfit(r.Context(), year)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProfitReport(e, report) })
}

// respondOrderError maps domain errors to HTTP responses: unknown order to
// 404, validation failures to 400 with the message, anything else to a
// logged 500. A missing reference status is a deployment problem and lands
// in the 500 branch.
func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var ipErr *order.InvalidProductError

	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidCustomer),
		errors.Is(err, order.ErrInvalidReseller),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrMissingProduct):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ipErr):
		writeError(w, http.StatusBadRequest, ipErr.Error())
	default:
		zctx.From(r.Context()).Error("Order request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
