package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/go-chi/render"
)

// RequireSession rejects requests without a valid session credential with
// 401 and stores the claims in the request context otherwise.
func RequireSession(v Verifier, l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, ok := auth.SessionFromRequest(r)
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, Error("Unauthorized"))
				return
			}

			claims, err := v.Verify(credential)
			if err != nil {
				if errors.Is(err, common.ErrConfiguration) {
					l.Error(r.Context(), "session verification unavailable", logging.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, Error("Internal error"))
					return
				}
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, Error("Unauthorized"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalSession attaches claims when a valid credential is present and
// passes every request through.
func OptionalSession(v Verifier, l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := sessionClaims(r.Context(), r, v, l); ok {
				r = r.WithContext(auth.WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}
