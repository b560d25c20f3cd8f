package users

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/services"
	"coffeeshop_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type UserRoutesManager struct {
	logger      *gecho.Logger
	userService *services.UserService
	mw          *middleware.Middleware
}

func NewUserRoutesManager(logger *gecho.Logger, userService *services.UserService, mw *middleware.Middleware) *UserRoutesManager {
	return &UserRoutesManager{
		logger:      logger,
		userService: userService,
		mw:          mw,
	}
}

func (urm *UserRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(urm.mw.RequireSession)
		r.Use(urm.mw.RequireRole(tables.RoleAdmin))

		r.Get("/", urm.ListUsers)
		r.Post("/", urm.CreateUser)
		r.Get("/{id}", urm.GetUser)
		r.Put("/{id}", urm.UpdateUser)
		r.Patch("/{id}/active", urm.SetUserActive)
		r.Delete("/{id}", urm.DeleteUser)
	})
}
