package auth

import (
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		handling.HandleError(err, "Please check your login information and try again", arm.logger, w)
		return
	}

	session, token, err := arm.authService.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		arm.logger.Warn("Login failed", gecho.Field("username", body.Username), gecho.Field("error", err))
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	arm.mw.ResetLoginRateLimit(r)
	lib.SetAccessCookie(w, token, session.ExpiresAt, arm.cfg.Server.Environment == "production")

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(map[string]any{
			"access_token": token,
			"expires_at":   session.ExpiresAt,
			"user":         session.User,
		}),
		gecho.Send(),
	)
}
