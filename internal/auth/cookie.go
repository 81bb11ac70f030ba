package auth

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName is the cookie holding the opaque session ID.
	SessionCookieName = "session_id"

	// SessionCookieMaxAge matches the default session key TTL.
	SessionCookieMaxAge = 7 * 24 * time.Hour
)

// NewSessionCookie builds the cookie carrying session id. It lives as long
// as the session; a non-positive ttl uses SessionCookieMaxAge.
func NewSessionCookie(id string, ttl time.Duration, secure bool) http.Cookie {
	if ttl <= 0 {
		ttl = SessionCookieMaxAge
	}
	return sessionCookie(id, int(ttl.Seconds()), secure)
}

// ExpiredSessionCookie builds a cookie that deletes the session cookie.
func ExpiredSessionCookie(secure bool) http.Cookie {
	return sessionCookie("", -1, secure)
}

// SessionIDFromRequest returns the session ID carried by r, or "".
func SessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func sessionCookie(value string, maxAge int, secure bool) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
