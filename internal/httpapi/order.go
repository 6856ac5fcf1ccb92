package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderdesk/orderdesk/internal/domain/order"
)

// orderDateLayout matches the DATE column: orders carry a processing date,
// not a timestamp.
const orderDateLayout = "2006-01-02"

type orderRequest struct {
	customerID int64
	total      decimal.Decimal
	items      []order.ItemRequest
}

func decodeOrderRequest(data []byte) (*orderRequest, error) {
	var req orderRequest
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "customerId":
			v, err := d.Int64()
			req.customerID = v
			return err
		case "total":
			v, err := decodeDecimal(d)
			req.total = v
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var item order.ItemRequest
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "productId":
						v, err := d.Int64()
						item.ProductID = v
						return err
					case "quantity":
						v, err := d.Int()
						item.Quantity = v
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				req.items = append(req.items, item)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, err
	}
	return &req, nil
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("customerId")
	e.Int64(o.CustomerID)
	e.FieldStart("total")
	encodeDecimal(e, o.Total)
	e.FieldStart("orderDate")
	e.Str(o.OrderDate.Format(orderDateLayout))
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("items")
	e.ArrStart()
	for i := range o.Items {
		item := &o.Items[i]
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(item.ID)
		e.FieldStart("productId")
		e.Int64(item.ProductID)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		if item.Product != nil {
			e.FieldStart("description")
			e.Str(item.Product.Description)
			e.FieldStart("price")
			encodeDecimal(e, item.Product.Price)
		}
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// createOrder handles POST /orders.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	req, err := decodeOrderRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed order request")
		return
	}

	o, err := h.orderService.Place(r.Context(), order.PlaceOrderRequest{
		CustomerID: req.customerID,
		Total:      req.total,
		Items:      req.items,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int64("order.id", o.ID))
	ordersPlaced.Add(r.Context(), 1)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeOrder(e, o) })
}

// getOrder handles GET /orders/{id}. Absence from the service is mapped to
// 404 here; the service itself does not treat it as an error.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrderInfo(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, o) })
}

// updateOrderStatus handles PUT /orders/{id}/status.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var raw string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "status" {
			return d.Skip()
		}
		v, err := d.Str()
		raw = v
		return err
	}); err != nil {
		writeError(w, http.StatusBadRequest, "malformed status request")
		return
	}

	status, err := order.ParseStatus(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orderService.UpdateStatus(r.Context(), id, status)
	if err != nil {
		var nfErr *order.NotFoundError
		if errors.As(err, &nfErr) {
			writeError(w, http.StatusNotFound, nfErr.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	statusUpdates.Add(r.Context(), 1, metric.WithAttributes(attribute.String("order.status", string(status))))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, o) })
}

// writeOrderError maps order placement errors to response codes: an empty
// item list is a malformed request, other business-rule violations are
// unprocessable, anything else is internal.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, err.Error())
	case order.IsBusinessViolation(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeInternalError(w, r, err)
	}
}

// pathID parses the {id} path parameter, responding 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
