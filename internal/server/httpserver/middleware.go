package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
)

// RequestLogger writes one line per request and stores the request id in the
// context so every log line written while serving it carries the id.
func RequestLogger(l logging.Logger) func(http.Handler) http.Handler {
	l = l.With("module", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.ContextWith(r.Context(), "request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctx)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				l.Info(r.Context(), "request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RateLimits caps requests per client IP on the endpoints that send email or
// check passwords.
type RateLimits struct {
	Signup    Limit
	Login     Limit
	Verify    Limit
	SendEmail Limit
}

type Limit struct {
	Requests int
	Window   time.Duration
}

var DefaultRateLimits = RateLimits{
	Signup:    Limit{Requests: 5, Window: time.Hour},
	Login:     Limit{Requests: 10, Window: 5 * time.Minute},
	Verify:    Limit{Requests: 10, Window: 10 * time.Minute},
	SendEmail: Limit{Requests: 3, Window: time.Hour},
}

// handler returns a per-IP limiter, or a pass-through when the limit is unset.
func (l Limit) handler() func(http.Handler) http.Handler {
	if l.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(l.Requests, l.Window)
}
