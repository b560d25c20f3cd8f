package handling

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const DateLayout = "2006-01-02"

// OrderListOptions holds the filters accepted by GET /orders. At most one
// filter is applied; see Kind.
type OrderListOptions struct {
	Search   string
	Status   tables.OrderStatus
	WaiterID int64
	TableID  int64
	From     time.Time
	To       time.Time
	Today    bool
}

type OrderFilterKind int

const (
	OrderFilterNone OrderFilterKind = iota
	OrderFilterSearch
	OrderFilterStatus
	OrderFilterWaiter
	OrderFilterTable
	OrderFilterDateRange
	OrderFilterToday
)

// Kind picks the filter to apply, in this order: q, status, waiter_id,
// table_id, from/to, today.
func (o *OrderListOptions) Kind() OrderFilterKind {
	switch {
	case o.Search != "":
		return OrderFilterSearch
	case o.Status != "":
		return OrderFilterStatus
	case o.WaiterID > 0:
		return OrderFilterWaiter
	case o.TableID > 0:
		return OrderFilterTable
	case !o.From.IsZero() || !o.To.IsZero():
		return OrderFilterDateRange
	case o.Today:
		return OrderFilterToday
	}
	return OrderFilterNone
}

// ParseOrderListOptions reads the order filters from the query string. Dates
// are calendar days (YYYY-MM-DD) in loc; a missing bound takes the other one.
func ParseOrderListOptions(r *http.Request, loc *time.Location) (*OrderListOptions, error) {
	query := r.URL.Query()
	opts := &OrderListOptions{Search: strings.TrimSpace(query.Get("q"))}

	if raw := query.Get("status"); raw != "" {
		status, ok := tables.ParseOrderStatus(raw)
		if !ok {
			return nil, lib.NewValidationError("Invalid order status: %s", raw)
		}
		opts.Status = status
	}

	var err error
	if opts.WaiterID, err = parseInt64Query(query.Get("waiter_id"), "waiter_id"); err != nil {
		return nil, err
	}
	if opts.TableID, err = parseInt64Query(query.Get("table_id"), "table_id"); err != nil {
		return nil, err
	}

	if opts.From, err = parseDateQuery(query.Get("from"), "from", loc); err != nil {
		return nil, err
	}
	if opts.To, err = parseDateQuery(query.Get("to"), "to", loc); err != nil {
		return nil, err
	}
	if opts.From.IsZero() {
		opts.From = opts.To
	}
	if opts.To.IsZero() {
		opts.To = opts.From
	}

	if raw := query.Get("today"); raw != "" {
		today, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, lib.NewValidationError("today must be true or false")
		}
		opts.Today = today
	}

	return opts, nil
}

func parseInt64Query(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, lib.NewValidationError("%s must be a positive number", name)
	}
	return value, nil
}

func parseDateQuery(raw, name string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, lib.NewValidationError("%s must be a date in the form YYYY-MM-DD", name)
	}
	return t, nil
}

// IDParam reads a positive numeric path parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, lib.NewValidationError("Invalid %s", name)
	}
	return value, nil
}

// BoolQuery reads an optional boolean query parameter.
func BoolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, lib.NewValidationError("%s must be true or false", name)
	}
	return &value, nil
}
