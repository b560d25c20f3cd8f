package orders

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid order", orm.logger, w)
		return
	}

	order, err := orm.buildOrder(r.Context(), body, false)
	if err != nil {
		handling.HandleError(err, "Failed to create order", orm.logger, w)
		return
	}
	if order.WaiterID == nil {
		order.WaiterID = session.UserID()
	}

	saved, err := orm.orderService.CreateOrder(r.Context(), order)
	if err != nil {
		handling.HandleError(err, "Failed to create order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order created"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid order", orm.logger, w)
		return
	}

	order, err := orm.buildOrder(r.Context(), body, true)
	if err != nil {
		handling.HandleError(err, "Failed to update order", orm.logger, w)
		return
	}
	order.ID = id

	updated, err := orm.orderService.UpdateOrder(r.Context(), order)
	if err != nil {
		handling.HandleError(err, "Failed to update order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order updated"),
		gecho.WithData(updated),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) AddOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid order item", orm.logger, w)
		return
	}

	item, err := orm.orderService.BuildOrderItem(r.Context(), body.MenuItemID, body.Quantity, body.SpecialInstructions)
	if err != nil {
		handling.HandleError(err, "Failed to add item", orm.logger, w)
		return
	}

	updated, err := orm.orderService.AddItemToOrder(r.Context(), id, item)
	if err != nil {
		handling.HandleError(err, "Failed to add item", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Item added"),
		gecho.WithData(updated),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	itemID, err := handling.IDParam(r, "itemId")
	if err != nil {
		handling.HandleError(err, "Invalid item id", orm.logger, w)
		return
	}

	updated, err := orm.orderService.RemoveItemFromOrder(r.Context(), id, itemID)
	if err != nil {
		handling.HandleError(err, "Failed to remove item", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Item removed"),
		gecho.WithData(updated),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid status", orm.logger, w)
		return
	}

	status, ok := tables.ParseOrderStatus(body.Status)
	if !ok {
		handling.HandleError(lib.NewValidationError("Invalid order status: %s", body.Status), "Invalid status", orm.logger, w)
		return
	}

	if err := orm.orderService.UpdateOrderStatus(r.Context(), id, status, session.UserID()); err != nil {
		handling.HandleError(err, "Failed to update order status", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order status updated"),
		gecho.WithData(map[string]any{"id": id, "status": status}),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid order id", orm.logger, w)
		return
	}

	if err := orm.orderService.DeleteOrder(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order deleted"),
		gecho.Send(),
	)
}

// buildOrder prices new lines at the current menu price. When editing, lines
// that name an existing item are passed on unpriced so the service can keep
// their captured price.
func (orm *OrderRoutesManager) buildOrder(ctx context.Context, body *structs.OrderRequest, editing bool) (*tables.Order, error) {
	order := &tables.Order{
		TableID:      body.TableID,
		CustomerName: body.CustomerName,
		WaiterID:     body.WaiterID,
		Notes:        body.Notes,
	}

	for _, line := range body.Items {
		if line.ID != nil {
			if !editing {
				return nil, lib.NewValidationError("New orders cannot reference existing order items")
			}
			order.Items = append(order.Items, &tables.OrderItem{
				ID:                  *line.ID,
				MenuItemID:          line.MenuItemID,
				Quantity:            line.Quantity,
				SpecialInstructions: line.SpecialInstructions,
			})
			continue
		}

		item, err := orm.orderService.BuildOrderItem(ctx, line.MenuItemID, line.Quantity, line.SpecialInstructions)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}
