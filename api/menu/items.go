package menu

import (
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
)

// ListMenuItems serves GET /menu/items. Filters, first match wins:
// ?q=term, ?category_id=N, ?available=true.
func (mrm *MenuRoutesManager) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	available, err := handling.BoolQuery(r, "available")
	if err != nil {
		handling.HandleError(err, "Invalid filters", mrm.logger, w)
		return
	}

	var items []tables.MenuItem
	switch {
	case query.Has("q"):
		items, err = mrm.menuService.SearchMenuItems(r.Context(), query.Get("q"))
	case query.Get("category_id") != "":
		categoryID, convErr := strconv.ParseInt(query.Get("category_id"), 10, 64)
		if convErr != nil || categoryID <= 0 {
			handling.HandleError(lib.NewValidationError("category_id must be a positive number"), "Invalid filters", mrm.logger, w)
			return
		}
		items, err = mrm.menuService.GetMenuItemsByCategory(r.Context(), categoryID)
	case available != nil && *available:
		items, err = mrm.menuService.GetAvailableMenuItems(r.Context())
	default:
		items, err = mrm.menuService.GetAllMenuItems(r.Context())
	}
	if err != nil {
		handling.HandleError(err, "Failed to load menu items", mrm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(items), gecho.Send())
}

func (mrm *MenuRoutesManager) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid menu item id", mrm.logger, w)
		return
	}

	item, err := mrm.menuService.GetMenuItemByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load menu item", mrm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(item), gecho.Send())
}

func (mrm *MenuRoutesManager) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.MenuItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid menu item", mrm.logger, w)
		return
	}

	item := menuItemFromRequest(body)
	item.IsAvailable = body.IsAvailable == nil || *body.IsAvailable

	saved, err := mrm.menuService.CreateMenuItem(r.Context(), item)
	if err != nil {
		handling.HandleError(err, "Failed to create menu item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Menu item created"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid menu item id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.MenuItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid menu item", mrm.logger, w)
		return
	}

	existing, err := mrm.menuService.GetMenuItemByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to update menu item", mrm.logger, w)
		return
	}

	item := menuItemFromRequest(body)
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.IsAvailable = existing.IsAvailable
	if body.IsAvailable != nil {
		item.IsAvailable = *body.IsAvailable
	}

	if err := mrm.menuService.UpdateMenuItem(r.Context(), item); err != nil {
		handling.HandleError(err, "Failed to update menu item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Menu item updated"),
		gecho.WithData(item),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) SetMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid menu item id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.AvailabilityRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", mrm.logger, w)
		return
	}

	if err := mrm.menuService.UpdateMenuItemAvailability(r.Context(), id, *body.Available); err != nil {
		handling.HandleError(err, "Failed to update availability", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Availability updated"),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid menu item id", mrm.logger, w)
		return
	}

	if err := mrm.menuService.DeleteMenuItem(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete menu item", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Menu item deleted"),
		gecho.Send(),
	)
}

func menuItemFromRequest(body *structs.MenuItemRequest) *tables.MenuItem {
	return &tables.MenuItem{
		Name:            body.Name,
		CategoryID:      body.CategoryID,
		Description:     body.Description,
		Price:           body.Price,
		ImagePath:       body.ImagePath,
		PreparationTime: body.PreparationTime,
	}
}
