package auth

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/services"
	"coffeeshop_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	userService *services.UserService
	cfg         *structs.Config
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	userService *services.UserService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		userService: userService,
		cfg:         cfg,
		mw:          mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.With(arm.mw.LoginRateLimit()).Post("/login", arm.HandleLogin)

		// Session routes
		r.Group(func(r chi.Router) {
			r.Use(arm.mw.RequireSession)
			r.Post("/logout", arm.HandleLogout)
			r.Get("/me", arm.HandleMe)
			r.Post("/password", arm.HandleChangePassword)
		})
	})
}
