package seating

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/services"
	"coffeeshop_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type TableRoutesManager struct {
	logger       *gecho.Logger
	tableService *services.TableService
	mw           *middleware.Middleware
}

func NewTableRoutesManager(logger *gecho.Logger, tableService *services.TableService, mw *middleware.Middleware) *TableRoutesManager {
	return &TableRoutesManager{
		logger:       logger,
		tableService: tableService,
		mw:           mw,
	}
}

func (trm *TableRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Use(trm.mw.RequireSession)

		r.Get("/", trm.ListTables)
		r.Get("/available", trm.ListAvailableTables)
		r.Get("/count", trm.CountTables)
		r.Get("/number/{number}", trm.GetTableByNumber)
		r.Get("/{id}", trm.GetTable)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(trm.mw.RequireRole(tables.RoleAdmin))
			r.Post("/", trm.CreateTable)
			r.Put("/{id}", trm.UpdateTable)
			r.Patch("/{id}/active", trm.SetTableActive)
			r.Delete("/{id}", trm.DeleteTable)
		})
	})
}
