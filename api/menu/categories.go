package menu

import (
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListCategories serves GET /menu/categories, ?active=true for active only.
func (mrm *MenuRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	active, err := handling.BoolQuery(r, "active")
	if err != nil {
		handling.HandleError(err, "Invalid filters", mrm.logger, w)
		return
	}

	var categories []tables.Category
	if active != nil && *active {
		categories, err = mrm.menuService.GetActiveCategories(r.Context())
	} else {
		categories, err = mrm.menuService.GetAllCategories(r.Context())
	}
	if err != nil {
		handling.HandleError(err, "Failed to load categories", mrm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (mrm *MenuRoutesManager) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid category id", mrm.logger, w)
		return
	}

	category, err := mrm.menuService.GetCategoryByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load category", mrm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(category), gecho.Send())
}

func (mrm *MenuRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid category", mrm.logger, w)
		return
	}

	category := &tables.Category{
		Name:        body.Name,
		Description: body.Description,
		IsActive:    body.IsActive == nil || *body.IsActive,
	}

	saved, err := mrm.menuService.CreateCategory(r.Context(), category)
	if err != nil {
		handling.HandleError(err, "Failed to create category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category created"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid category id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid category", mrm.logger, w)
		return
	}

	category, err := mrm.menuService.GetCategoryByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to update category", mrm.logger, w)
		return
	}

	category.Name = body.Name
	category.Description = body.Description
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := mrm.menuService.UpdateCategory(r.Context(), category); err != nil {
		handling.HandleError(err, "Failed to update category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category updated"),
		gecho.WithData(category),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) SetCategoryActive(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid category id", mrm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ActiveRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", mrm.logger, w)
		return
	}

	if err := mrm.menuService.UpdateCategoryActiveStatus(r.Context(), id, *body.Active); err != nil {
		handling.HandleError(err, "Failed to update category status", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category status updated"),
		gecho.Send(),
	)
}

func (mrm *MenuRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid category id", mrm.logger, w)
		return
	}

	if err := mrm.menuService.DeleteCategory(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete category", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category deleted"),
		gecho.Send(),
	)
}
