package handling

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderListOptions(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	tests := []struct {
		name  string
		query string
		kind  OrderFilterKind
		check func(t *testing.T, opts *OrderListOptions)
	}{
		{name: "no filters", query: "", kind: OrderFilterNone},
		{name: "search wins", query: "q=ORD&status=NEW&waiter_id=3", kind: OrderFilterSearch, check: func(t *testing.T, opts *OrderListOptions) {
			assert.Equal(t, "ORD", opts.Search)
		}},
		{name: "status is case insensitive", query: "status=in_progress", kind: OrderFilterStatus, check: func(t *testing.T, opts *OrderListOptions) {
			assert.Equal(t, tables.OrderStatusInProgress, opts.Status)
		}},
		{name: "waiter before table", query: "waiter_id=3&table_id=9", kind: OrderFilterWaiter, check: func(t *testing.T, opts *OrderListOptions) {
			assert.Equal(t, int64(3), opts.WaiterID)
			assert.Equal(t, int64(9), opts.TableID)
		}},
		{name: "table", query: "table_id=9", kind: OrderFilterTable},
		{name: "single bound fills the other", query: "from=2024-03-01", kind: OrderFilterDateRange, check: func(t *testing.T, opts *OrderListOptions) {
			want := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
			assert.True(t, opts.From.Equal(want))
			assert.True(t, opts.To.Equal(want))
		}},
		{name: "date range before today", query: "from=2024-03-01&to=2024-03-07&today=true", kind: OrderFilterDateRange},
		{name: "today", query: "today=true", kind: OrderFilterToday},
		{name: "today false", query: "today=false", kind: OrderFilterNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders?"+tt.query, nil)

			opts, err := ParseOrderListOptions(req, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, opts.Kind())
			if tt.check != nil {
				tt.check(t, opts)
			}
		})
	}
}

func TestParseOrderListOptionsRejectsBadInput(t *testing.T) {
	queries := []string{
		"status=SERVED",
		"waiter_id=abc",
		"table_id=-1",
		"from=01-03-2024",
		"to=2024-13-01",
		"today=maybe",
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders?"+query, nil)

			_, err := ParseOrderListOptions(req, time.UTC)
			require.Error(t, err)
			assert.True(t, lib.IsValidation(err))
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestIDParam(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/orders/12", nil), "id", "12")
	id, err := IDParam(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"", "0", "-4", "twelve"} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/orders/x", nil), "id", raw)
		_, err := IDParam(req, "id")
		assert.True(t, lib.IsValidation(err), raw)
	}
}

func TestBoolQuery(t *testing.T) {
	value, err := BoolQuery(httptest.NewRequest(http.MethodGet, "/tables", nil), "active")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = BoolQuery(httptest.NewRequest(http.MethodGet, "/tables?active=true", nil), "active")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.True(t, *value)

	_, err = BoolQuery(httptest.NewRequest(http.MethodGet, "/tables?active=yes", nil), "active")
	assert.True(t, lib.IsValidation(err))
}
