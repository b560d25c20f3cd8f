package repository

import (
	"coffeeshop_server/database"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

const orderNumberConstraint = "orders_order_number_key"

// OrderRepository persists Order aggregates. An order and its items are
// always written in one transaction.
type OrderRepository struct {
	db             *database.DB
	logger         *gecho.Logger
	numberPrefix   string
	numberAttempts int
	location       *time.Location
	now            func() time.Time
}

func NewOrderRepository(db *database.DB, logger *gecho.Logger, cfg *structs.Config) *OrderRepository {
	attempts := cfg.Orders.NumberAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &OrderRepository{
		db:             db,
		logger:         logger,
		numberPrefix:   cfg.Orders.NumberPrefix,
		numberAttempts: attempts,
		location:       locationOrLocal(cfg.Server.Location),
		now:            time.Now,
	}
}

// Save inserts the order and its items. A missing order number is generated;
// a generated number that collides is replaced and the insert retried.
func (r *OrderRepository) Save(ctx context.Context, order *tables.Order) (*tables.Order, error) {
	generated := order.OrderNumber == ""
	attempts := 1
	if generated {
		attempts = r.numberAttempts
	}

	for attempt := 1; ; attempt++ {
		if generated {
			order.OrderNumber = lib.GenerateOrderNumber(r.numberPrefix, r.now().In(r.location))
		}

		err := database.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
			return r.insertOrder(ctx, tx, order)
		})
		if err == nil {
			r.logger.Info("Order saved",
				gecho.Field("order_id", order.ID),
				gecho.Field("order_number", order.OrderNumber),
				gecho.Field("items", len(order.Items)),
				gecho.Field("total_amount", order.TotalAmount.StringFixed(2)))
			return order, nil
		}

		if generated && attempt < attempts && lib.ConstraintName(err) == orderNumberConstraint {
			r.logger.Warn("Order number collision, regenerating",
				gecho.Field("order_number", order.OrderNumber),
				gecho.Field("attempt", attempt))
			continue
		}

		r.logger.Error("Failed to save order",
			gecho.Field("order_number", order.OrderNumber),
			gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save order: %w", lib.MapPgError(err))
	}
}

func (r *OrderRepository) insertOrder(ctx context.Context, tx bun.Tx, order *tables.Order) error {
	// Ids from a rolled back attempt must not leak into the next one
	order.ID = 0
	if order.Status == "" {
		order.Status = tables.OrderStatusNew
	}
	prepareItems(order)

	if _, err := database.Query[tables.Order](r.db).Tx(tx).Insert(ctx, order); err != nil {
		return err
	}

	return r.insertItems(ctx, tx, order)
}

func (r *OrderRepository) insertItems(ctx context.Context, tx bun.Tx, order *tables.Order) error {
	if len(order.Items) == 0 {
		return nil
	}

	for _, item := range order.Items {
		item.ID = 0
		item.OrderID = order.ID
	}

	_, err := database.Query[tables.OrderItem](r.db).Tx(tx).InsertMany(ctx, order.Items)
	return err
}

// prepareItems recomputes every line total and then the order total, so the
// stored total always matches the stored items.
func prepareItems(order *tables.Order) {
	for _, item := range order.Items {
		item.RecalculateTotal()
	}
	order.RecalculateTotal()
}

func (r *OrderRepository) detailsQuery() *database.QueryBuilder[tables.OrderDetails] {
	return database.Query[tables.OrderDetails](r.db).
		ColumnExpr("o.*", "u.full_name AS waiter_name", "t.table_number AS table_number").
		LeftJoin("users", "u").On("u.id", "=", "o.waiter_id").End().
		LeftJoin("tables", "t").On("t.id", "=", "o.table_id").End()
}

// one runs a single-order lookup and attaches the items. No match is (nil, nil).
func (r *OrderRepository) one(ctx context.Context, query *database.QueryBuilder[tables.OrderDetails], field string, value any) (*tables.OrderDetails, error) {
	order, err := query.First(ctx)
	if err != nil {
		r.logger.Error("Failed to find order", gecho.Field(field, value), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to find order by %s: %w", field, lib.MapPgError(err))
	}
	if order == nil {
		return nil, nil
	}

	orders := []tables.OrderDetails{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// many runs a list query and attaches the items of every order with one
// additional query.
func (r *OrderRepository) many(ctx context.Context, query *database.QueryBuilder[tables.OrderDetails], what string) ([]tables.OrderDetails, error) {
	orders, err := query.All(ctx)
	if err != nil {
		r.logger.Error("Failed to list orders", gecho.Field("query", what), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list orders (%s): %w", what, lib.MapPgError(err))
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []tables.OrderDetails) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return err
	}

	byOrder := make(map[int64][]*tables.OrderItem, len(orders))
	for i := range items {
		item := &items[i]
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []*tables.OrderItem{}
		}
	}
	return nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []int64) ([]tables.OrderItem, error) {
	items, err := database.Query[tables.OrderItem](r.db).
		ColumnExpr("oi.*", "mi.name AS menu_item_name").
		LeftJoin("menu_items", "mi").On("mi.id", "=", "oi.menu_item_id").End().
		WhereIn("oi.order_id", orderIDs).
		OrderBy("oi.id", database.ASC).
		All(ctx)
	if err != nil {
		r.logger.Error("Failed to load order items", gecho.Field("order_ids", orderIDs), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to load order items: %w", lib.MapPgError(err))
	}
	return items, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*tables.OrderDetails, error) {
	return r.one(ctx, r.detailsQuery().Where("o.id", id), "id", id)
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*tables.OrderDetails, error) {
	return r.one(ctx, r.detailsQuery().Where("o.order_number", orderNumber), "order_number", orderNumber)
}

// FindByStatus lists orders in the given status, oldest first.
func (r *OrderRepository) FindByStatus(ctx context.Context, status tables.OrderStatus) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		Where("o.status", status).
		OrderBy("o.created_at", database.ASC)
	return r.many(ctx, query, "by status")
}

func (r *OrderRepository) FindByWaiter(ctx context.Context, waiterID int64) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		Where("o.waiter_id", waiterID).
		OrderBy("o.created_at", database.DESC)
	return r.many(ctx, query, "by waiter")
}

func (r *OrderRepository) FindByTable(ctx context.Context, tableID int64) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		Where("o.table_id", tableID).
		OrderBy("o.created_at", database.DESC)
	return r.many(ctx, query, "by table")
}

// FindByDateRange lists orders created within [start, end], inclusive.
func (r *OrderRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		WhereOp("o.created_at", ">=", start).
		WhereOp("o.created_at", "<=", end).
		OrderBy("o.created_at", database.DESC)
	return r.many(ctx, query, "by date range")
}

// FindTodaysOrders lists orders created since midnight in the shop's time zone.
func (r *OrderRepository) FindTodaysOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	start := StartOfDay(r.now(), r.location)
	query := r.detailsQuery().
		WhereOp("o.created_at", ">=", start).
		WhereOp("o.created_at", "<", start.AddDate(0, 0, 1)).
		OrderBy("o.created_at", database.DESC)
	return r.many(ctx, query, "today")
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]tables.OrderDetails, error) {
	return r.many(ctx, r.detailsQuery().OrderBy("o.created_at", database.DESC), "all")
}

// FindActiveOrders is the kitchen queue: NEW and IN_PROGRESS orders, oldest first.
func (r *OrderRepository) FindActiveOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		WhereIn("o.status", tables.ActiveOrderStatuses).
		OrderBy("o.created_at", database.ASC).
		OrderBy("o.id", database.ASC)
	return r.many(ctx, query, "active")
}

// FindCompletedOrders lists READY and COMPLETED orders, most recently updated first.
func (r *OrderRepository) FindCompletedOrders(ctx context.Context) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		WhereIn("o.status", tables.CompletedOrderStatuses).
		OrderBy("o.updated_at", database.DESC)
	return r.many(ctx, query, "completed")
}

// SearchOrders matches term case-insensitively against the order number,
// customer name and table number.
func (r *OrderRepository) SearchOrders(ctx context.Context, term string) ([]tables.OrderDetails, error) {
	query := r.detailsQuery().
		Or().
		WhereILike("o.order_number", term).
		WhereILike("o.customer_name", term).
		WhereILike("t.table_number", term).
		End().
		OrderBy("o.created_at", database.DESC)
	return r.many(ctx, query, "search")
}

// UpdateStatus sets the status and records the change in the status log.
// Transitions are not checked here.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status tables.OrderStatus, changedBy *int64) error {
	err := database.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		var current tables.OrderStatus
		err := tx.NewSelect().
			Model((*tables.Order)(nil)).
			Column("status").
			Where("o.id = ?", id).
			For("UPDATE").
			Scan(ctx, &current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
			}
			return err
		}

		if _, err := database.Query[tables.Order](r.db).Tx(tx).
			Where("o.id", id).
			Update(ctx, map[string]any{"status": status}); err != nil {
			return err
		}

		entry := &tables.OrderStatusLog{
			OrderID:   id,
			OldStatus: current,
			NewStatus: status,
			ChangedBy: changedBy,
		}
		_, err = database.Query[tables.OrderStatusLog](r.db).Tx(tx).Insert(ctx, entry)
		return err
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			r.logger.Error("Failed to update order status",
				gecho.Field("order_id", id),
				gecho.Field("status", status),
				gecho.Field("error", err))
		}
		return fmt.Errorf("failed to update order status: %w", lib.MapPgError(err))
	}

	r.logger.Info("Order status updated",
		gecho.Field("order_id", id),
		gecho.Field("new_status", status),
		gecho.Field("changed_by", changedBy))
	return nil
}

// Update replaces the scalar fields of the order and all of its items. The
// status is left alone; it only changes through UpdateStatus.
func (r *OrderRepository) Update(ctx context.Context, order *tables.Order) error {
	prepareItems(order)

	err := database.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		affected, err := database.Query[tables.Order](r.db).Tx(tx).
			Where("o.id", order.ID).
			Update(ctx, map[string]any{
				"table_id":      order.TableID,
				"customer_name": nullString(order.CustomerName),
				"waiter_id":     order.WaiterID,
				"total_amount":  order.TotalAmount,
				"notes":         nullString(order.Notes),
			})
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("order %d: %w", order.ID, lib.ErrNotFound)
		}

		if _, err := database.Query[tables.OrderItem](r.db).Tx(tx).
			Where("oi.order_id", order.ID).
			Delete(ctx); err != nil {
			return err
		}

		return r.insertItems(ctx, tx, order)
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			r.logger.Error("Failed to update order", gecho.Field("order_id", order.ID), gecho.Field("error", err))
		}
		return fmt.Errorf("failed to update order: %w", lib.MapPgError(err))
	}

	return nil
}

// DeleteByID removes the items and then the order. A missing order rolls the
// transaction back and reports ErrNotFound.
func (r *OrderRepository) DeleteByID(ctx context.Context, id int64) error {
	err := database.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.OrderItem](r.db).Tx(tx).
			Where("oi.order_id", id).
			Delete(ctx); err != nil {
			return err
		}

		affected, err := database.Query[tables.Order](r.db).Tx(tx).
			Where("o.id", id).
			Delete(ctx)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("order %d: %w", id, lib.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			r.logger.Error("Failed to delete order", gecho.Field("order_id", id), gecho.Field("error", err))
		}
		return fmt.Errorf("failed to delete order: %w", lib.MapPgError(err))
	}

	r.logger.Info("Order deleted", gecho.Field("order_id", id))
	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	count, err := database.CountAll[tables.Order](ctx, r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", lib.MapPgError(err))
	}
	return count, nil
}

func (r *OrderRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := database.ExistsByID[tables.Order](ctx, r.db, id)
	if err != nil {
		return false, fmt.Errorf("failed to check order %d: %w", id, lib.MapPgError(err))
	}
	return exists, nil
}

// StatusHistory returns the status log of an order in the order it happened.
func (r *OrderRepository) StatusHistory(ctx context.Context, orderID int64) ([]tables.OrderStatusLog, error) {
	history, err := database.Query[tables.OrderStatusLog](r.db).
		Where("osl.order_id", orderID).
		OrderBy("osl.changed_at", database.ASC).
		OrderBy("osl.id", database.ASC).
		All(ctx)
	if err != nil {
		r.logger.Error("Failed to load order status history", gecho.Field("order_id", orderID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to load status history: %w", lib.MapPgError(err))
	}
	return history, nil
}
