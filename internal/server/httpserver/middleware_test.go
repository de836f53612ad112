package httpserver

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.EnvLocal, &buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(l))
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		l.Info(r.Context(), "inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	rec := do(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ids := regexp.MustCompile(`request_id=(\S+)`).FindAllStringSubmatch(buf.String(), -1)
	if assert.Len(t, ids, 2, buf.String()) {
		assert.Equal(t, ids[0][1], ids[1][1])
	}
	assert.Contains(t, buf.String(), "request completed")
	assert.Contains(t, buf.String(), "status=204")
}
