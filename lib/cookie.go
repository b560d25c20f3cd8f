package lib

import (
	"net/http"
	"time"
)

// AccessCookieName carries the access token for browser terminals that do
// not send an Authorization header.
const AccessCookieName = "pos_access_token"

func sessionCookie(value string, expires time.Time, secure bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteStrictMode
	}
	return &http.Cookie{
		Name:     AccessCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	}
}

// SetAccessCookie stores token until the session expires.
func SetAccessCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, sessionCookie(token, expires, secure))
}

func ClearAccessCookie(w http.ResponseWriter, secure bool) {
	cookie := sessionCookie("", time.Unix(0, 0), secure)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func accessCookieValue(r *http.Request) string {
	cookie, err := r.Cookie(AccessCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
