package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/repository"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MonkyMars/gecho"
)

type OrderService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	orders    OrderStore
	menuItems MenuItemStore
	events    *EventService
}

func NewOrderService(logger *gecho.Logger, cfg *structs.Config, orders OrderStore, menuItems MenuItemStore, events *EventService) *OrderService {
	return &OrderService{
		logger:    logger,
		cfg:       cfg,
		orders:    orders,
		menuItems: menuItems,
		events:    events,
	}
}

// CreateOrder defaults the status to NEW, recomputes the total and saves the
// order with its items. The order number is generated when absent.
func (os *OrderService) CreateOrder(ctx context.Context, order *tables.Order) (*tables.Order, error) {
	if order.Status == "" {
		order.Status = tables.OrderStatusNew
	}

	// Timestamps come from the store
	order.CreatedAt = time.Time{}
	order.UpdatedAt = time.Time{}

	for _, item := range order.Items {
		item.RecalculateTotal()
	}
	order.RecalculateTotal()

	if err := validateOrder(order); err != nil {
		return nil, err
	}

	saved, err := os.orders.Save(ctx, order)
	if err != nil {
		os.logger.Error("Error creating order", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	OrdersCreated.Inc()
	os.logger.Info("Created new order",
		gecho.Field("order_number", saved.OrderNumber),
		gecho.Field("total_amount", saved.TotalAmount.StringFixed(2)))

	os.events.OrderCreated(ctx, saved)
	return saved, nil
}

// BuildOrderItem prices a new line at the menu item's current price.
func (os *OrderService) BuildOrderItem(ctx context.Context, menuItemID int64, quantity int, instructions string) (*tables.OrderItem, error) {
	if quantity <= 0 {
		return nil, lib.NewValidationError("Quantity must be greater than 0")
	}

	menuItem, err := os.menuItems.FindByID(ctx, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	if menuItem == nil {
		return nil, lib.NewValidationError("Menu item not found with ID: %d", menuItemID)
	}
	if !menuItem.IsAvailable {
		return nil, lib.NewValidationError("Menu item is not available: %s", menuItem.Name)
	}

	item := tables.NewOrderItem(menuItem.ID, quantity, menuItem.Price)
	item.MenuItemName = menuItem.Name
	item.SpecialInstructions = instructions
	return item, nil
}

// AddItemToOrder appends the item and rewrites the order with its new total.
func (os *OrderService) AddItemToOrder(ctx context.Context, orderID int64, item *tables.OrderItem) (*tables.OrderDetails, error) {
	details, err := os.loadForChange(ctx, orderID)
	if err != nil {
		return nil, err
	}

	item.RecalculateTotal()
	if err := validateItem(item); err != nil {
		return nil, err
	}

	details.AddItem(item)
	if err := os.orders.Update(ctx, &details.Order); err != nil {
		os.logger.Error("Error adding item to order", gecho.Field("order_id", orderID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to add item to order: %w", err)
	}

	os.logger.Info("Added item to order",
		gecho.Field("order_id", orderID),
		gecho.Field("menu_item_id", item.MenuItemID),
		gecho.Field("quantity", item.Quantity))
	return os.orders.FindByID(ctx, orderID)
}

// RemoveItemFromOrder drops one line and rewrites the order with its new total.
func (os *OrderService) RemoveItemFromOrder(ctx context.Context, orderID, itemID int64) (*tables.OrderDetails, error) {
	details, err := os.loadForChange(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !details.RemoveItem(itemID) {
		return nil, lib.NewValidationError("Order item %d does not belong to order %s", itemID, details.OrderNumber)
	}

	if err := os.orders.Update(ctx, &details.Order); err != nil {
		os.logger.Error("Error removing item from order", gecho.Field("order_id", orderID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to remove item from order: %w", err)
	}

	os.logger.Info("Removed item from order", gecho.Field("order_id", orderID), gecho.Field("item_id", itemID))
	return os.orders.FindByID(ctx, orderID)
}

// UpdateOrder replaces the editable fields and the items of an existing order.
// Lines carrying an ID keep the unit price captured when they were ordered;
// lines without one must already be priced by BuildOrderItem. A nil WaiterID
// keeps the current waiter. The status is changed only through
// UpdateOrderStatus.
func (os *OrderService) UpdateOrder(ctx context.Context, order *tables.Order) (*tables.OrderDetails, error) {
	current, err := os.loadForChange(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Status = current.Status
	order.OrderNumber = current.OrderNumber
	if order.WaiterID == nil {
		order.WaiterID = current.WaiterID
	}

	for _, item := range order.Items {
		if item.ID != 0 {
			if err := carryOverItem(&current.Order, item); err != nil {
				return nil, err
			}
		}
		item.RecalculateTotal()
	}
	order.RecalculateTotal()

	if err := validateOrder(order); err != nil {
		return nil, err
	}

	if err := os.orders.Update(ctx, order); err != nil {
		os.logger.Error("Error updating order", gecho.Field("order_id", order.ID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	os.logger.Info("Updated order", gecho.Field("order_id", order.ID))
	return os.orders.FindByID(ctx, order.ID)
}

// carryOverItem copies the menu item and captured price of an existing line
// onto its edited version.
func carryOverItem(current *tables.Order, item *tables.OrderItem) error {
	for _, existing := range current.Items {
		if existing.ID != item.ID {
			continue
		}
		if item.MenuItemID != 0 && item.MenuItemID != existing.MenuItemID {
			return lib.NewValidationError("Order item %d cannot change its menu item", item.ID)
		}
		item.MenuItemID = existing.MenuItemID
		item.MenuItemName = existing.MenuItemName
		item.UnitPrice = existing.UnitPrice
		return nil
	}
	return lib.NewValidationError("Order item %d does not belong to order %s", item.ID, current.OrderNumber)
}

// loadForChange loads an order that is about to be modified. Orders in a
// terminal status are frozen when strict transitions are enabled.
func (os *OrderService) loadForChange(ctx context.Context, orderID int64) (*tables.OrderDetails, error) {
	details, err := os.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if details == nil {
		return nil, lib.NewNotFoundError("Order not found with ID: %d", orderID)
	}

	if os.cfg.Orders.StrictTransitions && details.Status.IsTerminal() {
		return nil, lib.NewValidationError("Order %s is %s and can no longer be changed", details.OrderNumber, details.Status)
	}
	return details, nil
}

// UpdateOrderStatus moves an order to a new status and records who did it.
func (os *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status tables.OrderStatus, changedBy *int64) error {
	if !status.Valid() {
		return lib.NewValidationError("Invalid order status: %s", status)
	}

	details, err := os.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if details == nil {
		return lib.NewNotFoundError("Order not found with ID: %d", orderID)
	}

	previous := details.Status
	if os.cfg.Orders.StrictTransitions && !isValidStatusTransition(previous, status) {
		return lib.NewValidationError("Invalid status transition from %s to %s", previous, status)
	}

	if err := os.orders.UpdateStatus(ctx, orderID, status, changedBy); err != nil {
		os.logger.Error("Error updating order status", gecho.Field("order_id", orderID), gecho.Field("error", err))
		return fmt.Errorf("failed to update order status: %w", err)
	}

	OrderStatusTransitions.WithLabelValues(string(previous), string(status)).Inc()
	os.logger.Info("Updated order status",
		gecho.Field("order_id", orderID),
		gecho.Field("old_status", previous),
		gecho.Field("new_status", status))

	details.Status = status
	os.events.OrderStatusChanged(ctx, &details.Order, previous, changedBy)
	return nil
}

// isValidStatusTransition allows forward moves (skipping steps is fine) and
// cancelling any order that is not finished yet.
func isValidStatusTransition(current, next tables.OrderStatus) bool {
	// Define allowed transitions
	transitions := map[tables.OrderStatus][]tables.OrderStatus{
		tables.OrderStatusNew: {
			tables.OrderStatusInProgress,
			tables.OrderStatusReady,
			tables.OrderStatusCompleted,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusInProgress: {
			tables.OrderStatusReady,
			tables.OrderStatusCompleted,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusReady: {
			tables.OrderStatusCompleted,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusCompleted: {},
		tables.OrderStatusCancelled: {},
	}

	allowedNextStates, exists := transitions[current]
	if !exists {
		return false
	}
	return slices.Contains(allowedNextStates, next)
}

func (os *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := os.orders.DeleteByID(ctx, id); err != nil {
		if !lib.IsNotFound(err) {
			os.logger.Error("Error deleting order", gecho.Field("order_id", id), gecho.Field("error", err))
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	os.logger.Info("Deleted order", gecho.Field("order_id", id))
	return nil
}

func validateOrder(order *tables.Order) error {
	if !order.Status.Valid() {
		return lib.NewValidationError("Invalid order status: %s", order.Status)
	}
	if order.WaiterID == nil {
		return lib.NewValidationError("Waiter is required")
	}
	for _, item := range order.Items {
		if err := validateItem(item); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item *tables.OrderItem) error {
	if item.MenuItemID <= 0 {
		return lib.NewValidationError("Menu item is required")
	}
	if item.Quantity <= 0 {
		return lib.NewValidationError("Quantity must be greater than 0")
	}
	if item.UnitPrice.IsNegative() {
		return lib.NewValidationError("Unit price cannot be negative")
	}
	return nil
}

// Read accessors

func (os *OrderService) GetOrderByID(ctx context.Context, id int64) (*tables.OrderDetails, error) {
	return os.orders.FindByID(ctx, id)
}

func (os *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*tables.OrderDetails, error) {
	return os.orders.FindByOrderNumber(ctx, orderNumber)
}

func (os *OrderService) GetAllOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	return os.orders.FindAll(ctx)
}

func (os *OrderService) GetOrdersByStatus(ctx context.Context, status tables.OrderStatus) ([]tables.OrderDetails, error) {
	if !status.Valid() {
		return nil, lib.NewValidationError("Invalid order status: %s", status)
	}
	return os.orders.FindByStatus(ctx, status)
}

func (os *OrderService) GetOrdersByWaiter(ctx context.Context, waiterID int64) ([]tables.OrderDetails, error) {
	return os.orders.FindByWaiter(ctx, waiterID)
}

func (os *OrderService) GetOrdersByTable(ctx context.Context, tableID int64) ([]tables.OrderDetails, error) {
	return os.orders.FindByTable(ctx, tableID)
}

// GetOrdersByDateRange covers whole calendar days: from the start of
// startDate through 23:59:59 of endDate, in the shop's time zone.
func (os *OrderService) GetOrdersByDateRange(ctx context.Context, startDate, endDate time.Time) ([]tables.OrderDetails, error) {
	start := repository.StartOfDay(startDate, os.cfg.Server.Location)
	end := repository.EndOfDay(endDate, os.cfg.Server.Location)
	if end.Before(start) {
		return nil, lib.NewValidationError("End date cannot be before start date")
	}
	return os.orders.FindByDateRange(ctx, start, end)
}

func (os *OrderService) GetTodaysOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	return os.orders.FindTodaysOrders(ctx)
}

func (os *OrderService) GetActiveOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	return os.orders.FindActiveOrders(ctx)
}

func (os *OrderService) GetCompletedOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	return os.orders.FindCompletedOrders(ctx)
}

func (os *OrderService) SearchOrders(ctx context.Context, term string) ([]tables.OrderDetails, error) {
	return os.orders.SearchOrders(ctx, term)
}

func (os *OrderService) GetStatusHistory(ctx context.Context, orderID int64) ([]tables.OrderStatusLog, error) {
	exists, err := os.orders.ExistsByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, lib.NewNotFoundError("Order not found with ID: %d", orderID)
	}
	return os.orders.StatusHistory(ctx, orderID)
}

func (os *OrderService) CountOrders(ctx context.Context) (int, error) {
	return os.orders.Count(ctx)
}
