package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	// Try X-Forwarded-For first (if behind proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Try X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fallback to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// LoginRateLimit caps login attempts per client IP. It fails open when the
// cache is unavailable and is a no-op without Redis.
func (mw *Middleware) LoginRateLimit() func(http.Handler) http.Handler {
	limit := mw.cfg.Auth.LoginRateLimit
	window := mw.cfg.Auth.LoginRateWindow

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || !mw.cacheService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)

			count, err := mw.cacheService.IncrementRateLimit(r.Context(), clientIP, LoginEndpoint, window)
			if err != nil {
				// Cache error - log and allow request (fail open)
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
				)
				next.ServeHTTP(w, r)
				return
			}

			if count > limit {
				mw.logger.Warn("Login rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))

				gecho.TooManyRequests(w,
					gecho.WithMessage("Too many login attempts. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"retry_after": int(window.Seconds()),
						"reset_at":    time.Now().Add(window).Unix(),
					}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))

			next.ServeHTTP(w, r)
		})
	}
}

// LoginEndpoint is the rate limit bucket of POST /auth/login.
const LoginEndpoint = "auth:login"

// ResetLoginRateLimit clears the caller's counter after a successful login.
func (mw *Middleware) ResetLoginRateLimit(r *http.Request) {
	if err := mw.cacheService.ResetRateLimit(r.Context(), mw.getClientIP(r), LoginEndpoint); err != nil {
		mw.logger.Warn("Failed to reset login rate limit", gecho.Field("error", err))
	}
}
