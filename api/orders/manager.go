package orders

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/services"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, cfg *structs.Config, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		cfg:          cfg,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(orm.mw.RequireSession)

		// Kitchen reads orders and moves them along
		r.Group(func(r chi.Router) {
			r.Use(orm.mw.RequireRole(tables.RoleAdmin, tables.RoleWaiter, tables.RoleKitchen))
			r.Get("/", orm.ListOrders)
			r.Get("/active", orm.ListActiveOrders)
			r.Get("/completed", orm.ListCompletedOrders)
			r.Get("/count", orm.CountOrders)
			r.Get("/number/{number}", orm.GetOrderByNumber)
			r.Get("/{id}", orm.GetOrder)
			r.Get("/{id}/history", orm.GetOrderHistory)
			r.Patch("/{id}/status", orm.UpdateOrderStatus)
		})

		// Front of house
		r.Group(func(r chi.Router) {
			r.Use(orm.mw.RequireRole(tables.RoleAdmin, tables.RoleWaiter))
			r.Post("/", orm.CreateOrder)
			r.Put("/{id}", orm.UpdateOrder)
			r.Post("/{id}/items", orm.AddOrderItem)
			r.Delete("/{id}/items/{itemId}", orm.RemoveOrderItem)
		})

		r.With(orm.mw.RequireRole(tables.RoleAdmin)).Delete("/{id}", orm.DeleteOrder)
	})
}
