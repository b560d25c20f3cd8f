package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MonkyMars/gecho"
)

// MenuService manages categories and menu items. The full and available
// lists are served from the cache and dropped on every write.
type MenuService struct {
	logger       *gecho.Logger
	categories   CategoryStore
	menuItems    MenuItemStore
	cacheService *CacheService
}

func NewMenuService(logger *gecho.Logger, categories CategoryStore, menuItems MenuItemStore, cacheService *CacheService) *MenuService {
	return &MenuService{
		logger:       logger,
		categories:   categories,
		menuItems:    menuItems,
		cacheService: cacheService,
	}
}

// ============================================================================
// Menu items
// ============================================================================

func (ms *MenuService) GetAllMenuItems(ctx context.Context) ([]tables.MenuItem, error) {
	return ms.cachedMenuItems(ctx, false)
}

func (ms *MenuService) GetAvailableMenuItems(ctx context.Context) ([]tables.MenuItem, error) {
	return ms.cachedMenuItems(ctx, true)
}

func (ms *MenuService) cachedMenuItems(ctx context.Context, availableOnly bool) ([]tables.MenuItem, error) {
	cached, err := ms.cacheService.GetMenuItems(ctx, availableOnly)
	if err != nil {
		ms.logger.Warn("Failed to get menu items from cache", gecho.Field("error", err))
	} else if cached != nil {
		ms.logger.Debug("Menu items retrieved from cache", gecho.Field("available_only", availableOnly))
		return cached, nil
	}

	var items []tables.MenuItem
	if availableOnly {
		items, err = ms.menuItems.FindAvailable(ctx)
	} else {
		items, err = ms.menuItems.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	if err := ms.cacheService.SetMenuItems(ctx, availableOnly, items); err != nil {
		ms.logger.Warn("Failed to cache menu items", gecho.Field("error", err))
	}
	return items, nil
}

func (ms *MenuService) GetMenuItemsByCategory(ctx context.Context, categoryID int64) ([]tables.MenuItem, error) {
	return ms.menuItems.FindByCategory(ctx, categoryID)
}

func (ms *MenuService) GetMenuItemByID(ctx context.Context, id int64) (*tables.MenuItem, error) {
	item, err := ms.menuItems.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, lib.NewNotFoundError("Menu item not found with ID: %d", id)
	}
	return item, nil
}

// SearchMenuItems matches the name case-insensitively. A blank term lists everything.
func (ms *MenuService) SearchMenuItems(ctx context.Context, term string) ([]tables.MenuItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return ms.GetAllMenuItems(ctx)
	}
	return ms.menuItems.SearchByName(ctx, term)
}

func validateMenuItem(item *tables.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return lib.NewValidationError("Menu item name is required")
	}
	if item.CategoryID <= 0 {
		return lib.NewValidationError("Category is required")
	}
	if !item.Price.IsPositive() {
		return lib.NewValidationError("Price must be greater than 0")
	}
	if item.PreparationTime < 0 {
		return lib.NewValidationError("Preparation time cannot be negative")
	}
	return nil
}

func (ms *MenuService) CreateMenuItem(ctx context.Context, item *tables.MenuItem) (*tables.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	saved, err := ms.menuItems.Save(ctx, item)
	if err != nil {
		if errors.Is(err, lib.ErrReferenced) {
			return nil, lib.NewValidationError("Category not found with ID: %d", item.CategoryID)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Created menu item", gecho.Field("name", saved.Name), gecho.Field("price", saved.Price.StringFixed(2)))
	return saved, nil
}

func (ms *MenuService) UpdateMenuItem(ctx context.Context, item *tables.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}

	if err := ms.menuItems.Update(ctx, item); err != nil {
		if errors.Is(err, lib.ErrReferenced) {
			return lib.NewValidationError("Category not found with ID: %d", item.CategoryID)
		}
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Updated menu item", gecho.Field("menu_item_id", item.ID))
	return nil
}

func (ms *MenuService) UpdateMenuItemAvailability(ctx context.Context, id int64, available bool) error {
	if err := ms.menuItems.UpdateAvailability(ctx, id, available); err != nil {
		return fmt.Errorf("failed to update menu item availability: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Updated menu item availability", gecho.Field("menu_item_id", id), gecho.Field("available", available))
	return nil
}

// DeleteMenuItem removes an item that was never ordered. Ordered items
// should be marked unavailable instead.
func (ms *MenuService) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := ms.menuItems.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, lib.ErrReferenced) {
			return lib.NewValidationError("Cannot delete menu item that is part of existing orders")
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Deleted menu item", gecho.Field("menu_item_id", id))
	return nil
}

// ============================================================================
// Categories
// ============================================================================

func (ms *MenuService) GetAllCategories(ctx context.Context) ([]tables.Category, error) {
	return ms.cachedCategories(ctx, false)
}

func (ms *MenuService) GetActiveCategories(ctx context.Context) ([]tables.Category, error) {
	return ms.cachedCategories(ctx, true)
}

func (ms *MenuService) cachedCategories(ctx context.Context, activeOnly bool) ([]tables.Category, error) {
	cached, err := ms.cacheService.GetCategories(ctx, activeOnly)
	if err != nil {
		ms.logger.Warn("Failed to get categories from cache", gecho.Field("error", err))
	} else if cached != nil {
		return cached, nil
	}

	var categories []tables.Category
	if activeOnly {
		categories, err = ms.categories.FindActive(ctx)
	} else {
		categories, err = ms.categories.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if err := ms.cacheService.SetCategories(ctx, activeOnly, categories); err != nil {
		ms.logger.Warn("Failed to cache categories", gecho.Field("error", err))
	}
	return categories, nil
}

func (ms *MenuService) GetCategoryByID(ctx context.Context, id int64) (*tables.Category, error) {
	category, err := ms.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, lib.NewNotFoundError("Category not found with ID: %d", id)
	}
	return category, nil
}

func validateCategory(category *tables.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return lib.NewValidationError("Category name is required")
	}
	return nil
}

func (ms *MenuService) CreateCategory(ctx context.Context, category *tables.Category) (*tables.Category, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	saved, err := ms.categories.Save(ctx, category)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.NewValidationError("Category name already exists")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Created category", gecho.Field("name", saved.Name))
	return saved, nil
}

func (ms *MenuService) UpdateCategory(ctx context.Context, category *tables.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}

	if err := ms.categories.Update(ctx, category); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return lib.NewValidationError("Category name already exists")
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Updated category", gecho.Field("category_id", category.ID))
	return nil
}

func (ms *MenuService) UpdateCategoryActiveStatus(ctx context.Context, id int64, active bool) error {
	if err := ms.categories.UpdateActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update category status: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Updated category status", gecho.Field("category_id", id), gecho.Field("active", active))
	return nil
}

func (ms *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	count, err := ms.menuItems.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count menu items: %w", err)
	}
	if count > 0 {
		return lib.NewValidationError("Cannot delete category with existing menu items")
	}

	if err := ms.categories.DeleteByID(ctx, id); err != nil {
		// An item added since the count is caught by the foreign key
		if errors.Is(err, lib.ErrReferenced) {
			return lib.NewValidationError("Cannot delete category with existing menu items")
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	ms.invalidate(ctx)
	ms.logger.Info("Deleted category", gecho.Field("category_id", id))
	return nil
}

func (ms *MenuService) invalidate(ctx context.Context) {
	// Failures are logged by the cache; stale lists expire with the TTL
	_ = ms.cacheService.InvalidateMenu(ctx)
}
