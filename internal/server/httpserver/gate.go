package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
)

// Verifier checks a session credential.
type Verifier interface {
	Verify(credential string) (*auth.Claims, error)
}

type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is what the gate does with a page request.
type Decision struct {
	Action   Action
	Location string
}

// GateConfig describes which page paths the gate looks at and where it sends
// visitors. Public paths are for signed-out visitors only.
type GateConfig struct {
	Matcher []string
	Public  []string
	Home    string
	Login   string
}

var DefaultGate = GateConfig{
	Matcher: []string{"/login", "/signup", "/verifyEmail", "/profile", "/weatherDashboard"},
	Public:  []string{"/login", "/signup", "/verifyEmail"},
	Home:    "/weatherDashboard",
	Login:   "/login",
}

// Decide applies DefaultGate.
func Decide(path string, authenticated bool) Decision {
	return DefaultGate.Decide(path, authenticated)
}

// Decide maps a path and session state to a Decision. Paths outside Matcher
// are always allowed.
func (g GateConfig) Decide(path string, authenticated bool) Decision {
	path = cleanPath(path)
	if !contains(g.Matcher, path) {
		return Decision{Action: Allow}
	}

	public := contains(g.Public, path)
	switch {
	case public && authenticated:
		return Decision{Action: Redirect, Location: g.Home}
	case !public && !authenticated:
		return Decision{Action: Redirect, Location: g.Login}
	default:
		return Decision{Action: Allow}
	}
}

func (g GateConfig) matches(path string) bool {
	return contains(g.Matcher, cleanPath(path))
}

// Gate redirects page requests according to g. The session cookie must hold a
// valid credential to count as signed in.
func Gate(g GateConfig, v Verifier, l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			_, authenticated := sessionClaims(r.Context(), r, v, l)

			d := g.Decide(r.URL.Path, authenticated)
			if d.Action == Redirect {
				http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionClaims returns the claims of a valid session credential, if any.
func sessionClaims(ctx context.Context, r *http.Request, v Verifier, l logging.Logger) (*auth.Claims, bool) {
	credential, ok := auth.SessionFromRequest(r)
	if !ok {
		return nil, false
	}

	claims, err := v.Verify(credential)
	if err != nil {
		if errors.Is(err, common.ErrConfiguration) {
			l.Error(ctx, "session verification unavailable", logging.Err(err))
		}
		return nil, false
	}
	return claims, true
}

func cleanPath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
