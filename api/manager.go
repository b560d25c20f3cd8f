package api

import (
	"coffeeshop_server/api/auth"
	"coffeeshop_server/api/health"
	"coffeeshop_server/api/menu"
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/api/orders"
	"coffeeshop_server/api/seating"
	"coffeeshop_server/api/users"
	"coffeeshop_server/services"
	"coffeeshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes *health.HealthRoutesManager
	authRoutes   *auth.AuthRoutesManager
	userRoutes   *users.UserRoutesManager
	tableRoutes  *seating.TableRoutesManager
	menuRoutes   *menu.MenuRoutesManager
	orderRoutes  *orders.OrderRoutesManager
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes: health.NewHealthRoutesManager(sm.HealthService),
		authRoutes:   auth.NewAuthRoutesManager(logger, sm.AuthService, sm.UserService, cfg, mw),
		userRoutes:   users.NewUserRoutesManager(logger, sm.UserService, mw),
		tableRoutes:  seating.NewTableRoutesManager(logger, sm.TableService, mw),
		menuRoutes:   menu.NewMenuRoutesManager(logger, sm.MenuService, mw),
		orderRoutes:  orders.NewOrderRoutesManager(logger, cfg, sm.OrderService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.userRoutes.RegisterRoutes(r)
	rm.tableRoutes.RegisterRoutes(r)
	rm.menuRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
}
