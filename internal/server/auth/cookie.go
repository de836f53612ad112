package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
)

// SetSessionCookie stores credential in the session cookie.
func SetSessionCookie(w http.ResponseWriter, credential string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    credential,
		Path:     "/",
		MaxAge:   int(common.SessionCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest returns the raw credential from the session cookie.
// A missing or empty cookie is reported as ok == false, not as an error.
func SessionFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
