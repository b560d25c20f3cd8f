package middleware

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/services"
	"coffeeshop_server/structs/tables"
	"context"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing session data in request context
type contextKey string

const SessionContextKey contextKey = "session"

// RequireSession resolves the bearer token into a session and stores it in
// the request context. Requests without a valid token get a 401.
func (mw *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := lib.ExtractToken(r)
		if err != nil {
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		session, err := mw.authService.ResolveSession(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, lib.ErrExpiredToken):
				gecho.Unauthorized(w, gecho.WithMessage("Session expired, please log in again"), gecho.Send())
			case errors.Is(err, lib.ErrAccountDisabled):
				gecho.Unauthorized(w, gecho.WithMessage("User account is disabled"), gecho.Send())
			case errors.Is(err, lib.ErrInvalidToken):
				mw.logger.Debug("Rejected access token", gecho.Field("error", err))
				gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			default:
				mw.logger.Error("Failed to resolve session", gecho.Field("error", err))
				gecho.InternalServerError(w, gecho.WithMessage("Unable to verify session"), gecho.Send())
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireRole lets the request through only for the given roles.
// Must be used after RequireSession
func (mw *Middleware) RequireRole(roles ...tables.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
				return
			}

			if !session.HasRole(roles...) {
				mw.logger.Warn("Role not allowed for route",
					gecho.Field("user_id", session.User.ID),
					gecho.Field("role", session.User.Role),
					gecho.Field("path", r.URL.Path))
				gecho.Forbidden(w, gecho.WithMessage("You do not have access to this resource"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithSession(ctx context.Context, session *services.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// SessionFromContext is a helper function to extract the session from request context
func SessionFromContext(ctx context.Context) (*services.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*services.Session)
	return session, ok && session != nil
}
