package auth

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	if err := arm.authService.Logout(r.Context(), session); err != nil {
		handling.HandleError(err, "Failed to logout", arm.logger, w)
		return
	}

	lib.ClearAccessCookie(w, arm.cfg.Server.Environment == "production")

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	gecho.Success(w,
		gecho.WithData(session),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	body, err := lib.ExtractAndValidateBody[structs.ChangePasswordRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", arm.logger, w)
		return
	}

	if err := arm.userService.ChangePassword(r.Context(), session.User.ID, body.CurrentPassword, body.NewPassword); err != nil {
		handling.HandleError(err, "Failed to change password", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Password changed"),
		gecho.Send(),
	)
}
