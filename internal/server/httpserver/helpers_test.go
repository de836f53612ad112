package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/services"
	"github.com/dmitrijs2005/cloudygo/internal/server/weather"
)

const goodCredential = "good-credential"

type fakeVerifier struct {
	err error
}

func (v fakeVerifier) Verify(credential string) (*auth.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	if credential != goodCredential {
		return nil, common.ErrInvalidCredential
	}
	return &auth.Claims{SubjectID: "user-1", Username: "ann", Email: "ann@example.com"}, nil
}

type fakeUsers struct {
	register      func(username, email, password string) (*models.User, services.DeliveryResult, error)
	login         func(email, password string) (string, *models.User, error)
	verifyEmail   func(envelope string) (*models.User, services.DeliveryResult, error)
	requestEmail  func(email string, kind mailer.Kind) (services.DeliveryResult, error)
	resetPassword func(envelope, password string) error
	profile       func(userID string) (*models.User, error)
	history       func(userID string) ([]models.HistoryEntry, error)
}

func (f *fakeUsers) Register(_ context.Context, u, e, p string) (*models.User, services.DeliveryResult, error) {
	return f.register(u, e, p)
}
func (f *fakeUsers) Login(_ context.Context, e, p string) (string, *models.User, error) {
	return f.login(e, p)
}
func (f *fakeUsers) VerifyEmail(_ context.Context, env string) (*models.User, services.DeliveryResult, error) {
	return f.verifyEmail(env)
}
func (f *fakeUsers) RequestEmail(_ context.Context, e string, k mailer.Kind) (services.DeliveryResult, error) {
	return f.requestEmail(e, k)
}
func (f *fakeUsers) ResetPassword(_ context.Context, env, p string) error {
	return f.resetPassword(env, p)
}
func (f *fakeUsers) Profile(_ context.Context, id string) (*models.User, error) { return f.profile(id) }
func (f *fakeUsers) History(_ context.Context, id string) ([]models.HistoryEntry, error) {
	return f.history(id)
}

type fakeWeather struct {
	lookup func(city, userID string) (*weather.Report, error)
	record func(city, userID string) (*weather.Report, error)
}

func (f *fakeWeather) Lookup(_ context.Context, city, userID string) (*weather.Report, error) {
	return f.lookup(city, userID)
}
func (f *fakeWeather) Record(_ context.Context, city, userID string) (*weather.Report, error) {
	return f.record(city, userID)
}

func newTestRouter(t *testing.T, u *fakeUsers, w *fakeWeather) http.Handler {
	t.Helper()
	if u == nil {
		u = &fakeUsers{}
	}
	if w == nil {
		w = &fakeWeather{}
	}
	return NewRouter(Deps{
		Users:    u,
		Weather:  w,
		Sessions: fakeVerifier{},
		Logger:   logging.Discard(),
		Gate:     DefaultGate,
		Limits:   DefaultRateLimits,
	})
}

func do(h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func session() *http.Cookie {
	return &http.Cookie{Name: common.SessionCookieName, Value: goodCredential}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}
