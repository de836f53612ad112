package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

// Deps is everything the router needs.
type Deps struct {
	Users         UserService
	Weather       WeatherService
	Sessions      Verifier
	Logger        logging.Logger
	Gate          GateConfig
	Limits        RateLimits
	SecureCookies bool
	StaticDir     string
}

// NewRouter builds the HTTP API under /api and, when StaticDir is set, the
// gated HTML pages.
func NewRouter(d Deps) http.Handler {
	v := validator.New()

	uh := &userHandlers{users: d.Users, log: d.Logger, validate: v, secureCookies: d.SecureCookies}
	wh := &weatherHandlers{weather: d.Weather, log: d.Logger, validate: v}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(Gate(d.Gate, d.Sessions, d.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(d.Limits.Signup.handler()).Post("/signup", uh.signup)
			r.With(d.Limits.Login.handler()).Post("/login", uh.login)
			r.Get("/logout", uh.logout)
			r.With(d.Limits.Verify.handler()).Post("/verifyEmail", uh.verifyEmail)
			r.With(d.Limits.SendEmail.handler()).Post("/sendEmail", uh.sendEmail)
			r.With(d.Limits.Verify.handler()).Post("/resetPassword", uh.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(RequireSession(d.Sessions, d.Logger))
				r.Get("/profile", uh.profile)
				r.Get("/history", uh.history)
			})
		})

		r.With(OptionalSession(d.Sessions, d.Logger)).Get("/weather", wh.lookup)
		r.With(RequireSession(d.Sessions, d.Logger)).Post("/weather", wh.record)
	})

	if d.StaticDir != "" {
		r.Get("/", pageHandler(d.StaticDir, "index"))
		for _, name := range pageNames {
			r.Get("/"+name, pageHandler(d.StaticDir, name))
		}
	}

	return r
}
