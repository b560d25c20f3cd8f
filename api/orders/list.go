package orders

import (
	"coffeeshop_server/handling"
	"coffeeshop_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListOrders serves GET /orders with at most one of the filters q, status,
// waiter_id, table_id, from/to or today.
func (orm *OrderRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r, orm.cfg.Server.Location)
	if err != nil {
		handling.HandleError(err, "Invalid filters", orm.logger, w)
		return
	}

	ctx := r.Context()
	var orders []tables.OrderDetails

	switch opts.Kind() {
	case handling.OrderFilterSearch:
		orders, err = orm.orderService.SearchOrders(ctx, opts.Search)
	case handling.OrderFilterStatus:
		orders, err = orm.orderService.GetOrdersByStatus(ctx, opts.Status)
	case handling.OrderFilterWaiter:
		orders, err = orm.orderService.GetOrdersByWaiter(ctx, opts.WaiterID)
	case handling.OrderFilterTable:
		orders, err = orm.orderService.GetOrdersByTable(ctx, opts.TableID)
	case handling.OrderFilterDateRange:
		orders, err = orm.orderService.GetOrdersByDateRange(ctx, opts.From, opts.To)
	case handling.OrderFilterToday:
		orders, err = orm.orderService.GetTodaysOrders(ctx)
	default:
		orders, err = orm.orderService.GetAllOrders(ctx)
	}
	if err != nil {
		handling.HandleError(err, "Failed to load orders", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := orm.orderService.GetActiveOrders(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load active orders", orm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

func (orm *OrderRoutesManager) ListCompletedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := orm.orderService.GetCompletedOrders(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load completed orders", orm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

func (orm *OrderRoutesManager) CountOrders(w http.ResponseWriter, r *http.Request) {
	count, err := orm.orderService.CountOrders(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to count orders", orm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]int{"count": count}), gecho.Send())
}

func (orm *OrderRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	order, err := orm.orderService.GetOrderByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load order", orm.logger, w)
		return
	}
	if order == nil {
		gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(order), gecho.Send())
}

func (orm *OrderRoutesManager) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := orm.orderService.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		handling.HandleError(err, "Failed to load order", orm.logger, w)
		return
	}
	if order == nil {
		gecho.NotFound(w, gecho.WithMessage("Order not found"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(order), gecho.Send())
}

func (orm *OrderRoutesManager) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	history, err := orm.orderService.GetStatusHistory(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load order history", orm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(history), gecho.Send())
}
