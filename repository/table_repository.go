package repository

import (
	"coffeeshop_server/database"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// activeOrderExists matches tables occupied by a NEW or IN_PROGRESS order.
const activeOrderExists = "EXISTS (SELECT 1 FROM orders AS ao WHERE ao.table_id = t.id AND ao.status IN (?))"

type TableRepository struct {
	db     *database.DB
	logger *gecho.Logger
}

func NewTableRepository(db *database.DB, logger *gecho.Logger) *TableRepository {
	return &TableRepository{db: db, logger: logger}
}

func (r *TableRepository) list(ctx context.Context, query *database.QueryBuilder[tables.Table], what string) ([]tables.Table, error) {
	result, err := query.OrderBy("t.table_number", database.ASC).All(ctx)
	if err != nil {
		r.logger.Error("Failed to list tables", gecho.Field("query", what), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list tables (%s): %w", what, lib.MapPgError(err))
	}
	return result, nil
}

func (r *TableRepository) FindByID(ctx context.Context, id int64) (*tables.Table, error) {
	table, err := database.FindByID[tables.Table](ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find table %d: %w", id, lib.MapPgError(err))
	}
	return table, nil
}

func (r *TableRepository) FindByNumber(ctx context.Context, number string) (*tables.Table, error) {
	table, err := database.Query[tables.Table](r.db).Where("t.table_number", number).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find table %q: %w", number, lib.MapPgError(err))
	}
	return table, nil
}

func (r *TableRepository) FindAll(ctx context.Context) ([]tables.Table, error) {
	return r.list(ctx, database.Query[tables.Table](r.db), "all")
}

func (r *TableRepository) FindActive(ctx context.Context) ([]tables.Table, error) {
	return r.list(ctx, database.Query[tables.Table](r.db).Where("t.is_active", true), "active")
}

// FindAvailable lists active tables without a NEW or IN_PROGRESS order.
func (r *TableRepository) FindAvailable(ctx context.Context) ([]tables.Table, error) {
	query := database.Query[tables.Table](r.db).
		Where("t.is_active", true).
		WhereRaw("NOT "+activeOrderExists, bun.In(tables.ActiveOrderStatuses))
	return r.list(ctx, query, "available")
}

// FindByCapacity lists active tables seating at least minCapacity guests,
// smallest first.
func (r *TableRepository) FindByCapacity(ctx context.Context, minCapacity int) ([]tables.Table, error) {
	query := database.Query[tables.Table](r.db).
		WhereOp("t.capacity", ">=", minCapacity).
		Where("t.is_active", true).
		OrderBy("t.capacity", database.ASC)
	return r.list(ctx, query, "by capacity")
}

func (r *TableRepository) Save(ctx context.Context, table *tables.Table) (*tables.Table, error) {
	saved, err := database.Query[tables.Table](r.db).Insert(ctx, table)
	if err != nil {
		if !lib.IsUniqueViolation(err) {
			r.logger.Error("Failed to save table", gecho.Field("table_number", table.TableNumber), gecho.Field("error", err))
		}
		return nil, fmt.Errorf("failed to save table: %w", lib.MapPgError(err))
	}
	return saved, nil
}

func (r *TableRepository) Update(ctx context.Context, table *tables.Table) error {
	return updateByID[tables.Table](ctx, r.db, "table", table.ID, map[string]any{
		"table_number": table.TableNumber,
		"capacity":     table.Capacity,
		"is_active":    table.IsActive,
	})
}

func (r *TableRepository) UpdateActive(ctx context.Context, id int64, active bool) error {
	return updateByID[tables.Table](ctx, r.db, "table", id, map[string]any{"is_active": active})
}

func (r *TableRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[tables.Table](ctx, r.db, "table", id)
}

func (r *TableRepository) Count(ctx context.Context) (int, error) {
	count, err := database.CountAll[tables.Table](ctx, r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", lib.MapPgError(err))
	}
	return count, nil
}

func (r *TableRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := database.ExistsByID[tables.Table](ctx, r.db, id)
	if err != nil {
		return false, fmt.Errorf("failed to check table %d: %w", id, lib.MapPgError(err))
	}
	return exists, nil
}

func (r *TableRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	exists, err := database.Query[tables.Table](r.db).Where("t.table_number", number).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check table %q: %w", number, lib.MapPgError(err))
	}
	return exists, nil
}
