package menu

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/services"
	"coffeeshop_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MenuRoutesManager struct {
	logger      *gecho.Logger
	menuService *services.MenuService
	mw          *middleware.Middleware
}

func NewMenuRoutesManager(logger *gecho.Logger, menuService *services.MenuService, mw *middleware.Middleware) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:      logger,
		menuService: menuService,
		mw:          mw,
	}
}

func (mrm *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Use(mrm.mw.RequireSession)

		r.Get("/items", mrm.ListMenuItems)
		r.Get("/items/{id}", mrm.GetMenuItem)
		r.Get("/categories", mrm.ListCategories)
		r.Get("/categories/{id}", mrm.GetCategory)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(mrm.mw.RequireRole(tables.RoleAdmin))

			r.Post("/items", mrm.CreateMenuItem)
			r.Put("/items/{id}", mrm.UpdateMenuItem)
			r.Patch("/items/{id}/availability", mrm.SetMenuItemAvailability)
			r.Delete("/items/{id}", mrm.DeleteMenuItem)

			r.Post("/categories", mrm.CreateCategory)
			r.Put("/categories/{id}", mrm.UpdateCategory)
			r.Patch("/categories/{id}/active", mrm.SetCategoryActive)
			r.Delete("/categories/{id}", mrm.DeleteCategory)
		})
	})
}
