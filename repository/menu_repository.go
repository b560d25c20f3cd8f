package repository

import (
	"coffeeshop_server/database"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
)

type CategoryRepository struct {
	db     *database.DB
	logger *gecho.Logger
}

func NewCategoryRepository(db *database.DB, logger *gecho.Logger) *CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](r.db).OrderBy("c.name", database.ASC).All(ctx)
	if err != nil {
		r.logger.Error("Failed to list categories", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list categories: %w", lib.MapPgError(err))
	}
	return categories, nil
}

func (r *CategoryRepository) FindActive(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](r.db).
		Where("c.is_active", true).
		OrderBy("c.name", database.ASC).
		All(ctx)
	if err != nil {
		r.logger.Error("Failed to list active categories", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list active categories: %w", lib.MapPgError(err))
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*tables.Category, error) {
	category, err := database.FindByID[tables.Category](ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category %d: %w", id, lib.MapPgError(err))
	}
	return category, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	saved, err := database.Query[tables.Category](r.db).Insert(ctx, category)
	if err != nil {
		if !lib.IsUniqueViolation(err) {
			r.logger.Error("Failed to save category", gecho.Field("name", category.Name), gecho.Field("error", err))
		}
		return nil, fmt.Errorf("failed to save category: %w", lib.MapPgError(err))
	}
	return saved, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *tables.Category) error {
	return updateByID[tables.Category](ctx, r.db, "category", category.ID, map[string]any{
		"name":        category.Name,
		"description": nullString(category.Description),
		"is_active":   category.IsActive,
	})
}

func (r *CategoryRepository) UpdateActive(ctx context.Context, id int64, active bool) error {
	return updateByID[tables.Category](ctx, r.db, "category", id, map[string]any{"is_active": active})
}

func (r *CategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[tables.Category](ctx, r.db, "category", id)
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	count, err := database.CountAll[tables.Category](ctx, r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", lib.MapPgError(err))
	}
	return count, nil
}

type MenuItemRepository struct {
	db     *database.DB
	logger *gecho.Logger
}

func NewMenuItemRepository(db *database.DB, logger *gecho.Logger) *MenuItemRepository {
	return &MenuItemRepository{db: db, logger: logger}
}

// withCategory selects menu items together with their category name.
func (r *MenuItemRepository) withCategory() *database.QueryBuilder[tables.MenuItem] {
	return database.Query[tables.MenuItem](r.db).
		ColumnExpr("mi.*", "c.name AS category_name").
		LeftJoin("categories", "c").On("c.id", "=", "mi.category_id").End()
}

func (r *MenuItemRepository) list(ctx context.Context, query *database.QueryBuilder[tables.MenuItem], what string) ([]tables.MenuItem, error) {
	items, err := query.
		OrderBy("c.name", database.ASC).
		OrderBy("mi.name", database.ASC).
		All(ctx)
	if err != nil {
		r.logger.Error("Failed to list menu items", gecho.Field("query", what), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list menu items (%s): %w", what, lib.MapPgError(err))
	}
	return items, nil
}

func (r *MenuItemRepository) FindAll(ctx context.Context) ([]tables.MenuItem, error) {
	return r.list(ctx, r.withCategory(), "all")
}

func (r *MenuItemRepository) FindAvailable(ctx context.Context) ([]tables.MenuItem, error) {
	return r.list(ctx, r.withCategory().Where("mi.is_available", true), "available")
}

func (r *MenuItemRepository) FindByCategory(ctx context.Context, categoryID int64) ([]tables.MenuItem, error) {
	return r.list(ctx, r.withCategory().Where("mi.category_id", categoryID), "by category")
}

// SearchByName matches a case-insensitive substring of the item name.
func (r *MenuItemRepository) SearchByName(ctx context.Context, term string) ([]tables.MenuItem, error) {
	return r.list(ctx, r.withCategory().WhereILike("mi.name", term), "search")
}

func (r *MenuItemRepository) FindByID(ctx context.Context, id int64) (*tables.MenuItem, error) {
	item, err := r.withCategory().Where("mi.id", id).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu item %d: %w", id, lib.MapPgError(err))
	}
	return item, nil
}

func (r *MenuItemRepository) Save(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error) {
	saved, err := database.Query[tables.MenuItem](r.db).Insert(ctx, item)
	if err != nil {
		r.logger.Error("Failed to save menu item", gecho.Field("name", item.Name), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save menu item: %w", lib.MapPgError(err))
	}
	return saved, nil
}

func (r *MenuItemRepository) Update(ctx context.Context, item *tables.MenuItem) error {
	return updateByID[tables.MenuItem](ctx, r.db, "menu item", item.ID, map[string]any{
		"name":             item.Name,
		"category_id":      item.CategoryID,
		"description":      nullString(item.Description),
		"price":            item.Price,
		"is_available":     item.IsAvailable,
		"image_path":       nullString(item.ImagePath),
		"preparation_time": item.PreparationTime,
	})
}

func (r *MenuItemRepository) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	return updateByID[tables.MenuItem](ctx, r.db, "menu item", id, map[string]any{"is_available": available})
}

func (r *MenuItemRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[tables.MenuItem](ctx, r.db, "menu item", id)
}

// CountByCategory counts the menu items referencing a category.
func (r *MenuItemRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	count, err := database.Query[tables.MenuItem](r.db).Where("mi.category_id", categoryID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items of category %d: %w", categoryID, lib.MapPgError(err))
	}
	return count, nil
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	count, err := database.CountAll[tables.MenuItem](ctx, r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", lib.MapPgError(err))
	}
	return count, nil
}
