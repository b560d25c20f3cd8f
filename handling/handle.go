package handling

import (
	"coffeeshop_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError writes the response for a service error. Validation and
// not-found messages are shown to the user as is; anything unexpected is
// logged and answered with a generic 500 carrying msg.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		if len(validationErr.Errors) > 0 {
			gecho.BadRequest(w,
				gecho.WithMessage(validationErr.Error()),
				gecho.WithData(validationErr.Errors),
				gecho.Send(),
			)
			return
		}
		gecho.BadRequest(w, gecho.WithMessage(validationErr.Error()), gecho.Send())
		return
	}

	var notFoundErr *lib.NotFoundError
	switch {
	case errors.As(err, &notFoundErr):
		gecho.NotFound(w, gecho.WithMessage(notFoundErr.Error()), gecho.Send())
		return
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Resource not found"), gecho.Send())
		return
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("Resource already exists"), gecho.Send())
		return
	case errors.Is(err, lib.ErrReferenced):
		gecho.Conflict(w, gecho.WithMessage("Resource is still in use"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid username or password"), gecho.Send())
		return
	case errors.Is(err, lib.ErrAccountDisabled):
		gecho.Unauthorized(w, gecho.WithMessage("User account is disabled"), gecho.Send())
		return
	case errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("Session expired, please log in again"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidToken):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
		return
	case errors.Is(err, lib.ErrForbidden):
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}
