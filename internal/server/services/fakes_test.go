package services

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/cryptox"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/history"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/users"
	"github.com/google/uuid"
)

var testKey = strings.Repeat("a1", 32)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// memUsers mirrors the postgres repository contract in memory.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	order []string

	setErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*models.User{}} }

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.order = append(r.order, u.ID)
	return u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) SetPendingToken(ctx context.Context, userID string, kind models.TokenKind, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	tok, exp := token, expiresAt
	switch kind {
	case models.TokenKindVerify:
		u.VerifyToken, u.VerifyTokenExpiry = &tok, &exp
	case models.TokenKindForgot:
		u.ForgotToken, u.ForgotTokenExpiry = &tok, &exp
	}
	return nil
}

func (r *memUsers) FindByPendingToken(ctx context.Context, kind models.TokenKind, token string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		tok, exp := pending(u, kind)
		if tok != nil && *tok == token && exp != nil && exp.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) MarkVerified(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || u.VerifyToken == nil || *u.VerifyToken != token {
		return common.ErrorNotFound
	}
	u.IsVerified = true
	u.VerifyToken, u.VerifyTokenExpiry = nil, nil
	return nil
}

func (r *memUsers) ResetPassword(ctx context.Context, userID, token string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || u.ForgotToken == nil || *u.ForgotToken != token {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	u.ForgotToken, u.ForgotTokenExpiry = nil, nil
	return nil
}

func (r *memUsers) stored(id string) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

func pending(u *models.User, kind models.TokenKind) (*string, *time.Time) {
	if kind == models.TokenKindVerify {
		return u.VerifyToken, u.VerifyTokenExpiry
	}
	return u.ForgotToken, u.ForgotTokenExpiry
}

type memHistory struct {
	mu      sync.Mutex
	users   *memUsers
	entries map[string][]models.HistoryEntry
}

func (h *memHistory) Append(ctx context.Context, userID string, e models.HistoryEntry) error {
	if _, err := h.users.GetByID(ctx, userID); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[userID] = append(h.entries[userID], e)
	return nil
}

func (h *memHistory) List(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	src := h.entries[userID]
	out := make([]models.HistoryEntry, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

type fakeRepoManager struct {
	u *memUsers
	h *memHistory
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) History(db dbx.DBTX) history.Repository     { return m.h }

type fixture struct {
	clock   *fakeClock
	users   *memUsers
	history *memHistory
	sender  *mailer.MemorySender
	mock    sqlmock.Sqlmock
	conn    *dbx.Conn
	rm      *fakeRepoManager
	cipher  *cryptox.TokenCipher
	issuer  *auth.Issuer
	tokens  *TokenService
	email   *EmailService
	svc     *UserService
}

func newFixture(t *testing.T, key string) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		clock:  &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		users:  newMemUsers(),
		sender: &mailer.MemorySender{},
		mock:   mock,
		conn:   dbx.Wrap(db),
		cipher: cryptox.NewTokenCipher(key),
	}
	f.history = &memHistory{users: f.users, entries: map[string][]models.HistoryEntry{}}
	f.rm = &fakeRepoManager{u: f.users, h: f.history}
	f.issuer = auth.NewIssuer("session-secret", auth.WithNow(f.clock.Now))
	f.tokens = NewTokenService(f.conn, f.rm, common.PendingTokenTTL, f.clock.Now)
	f.email = NewEmailService(f.tokens, f.cipher, f.sender, "https://cloudy.example", logging.Discard())
	f.svc = NewUserService(f.conn, f.rm, f.tokens, f.email, f.cipher, f.issuer)
	return f
}

// seedUser stores a user directly, bypassing Register.
func (f *fixture) seedUser(t *testing.T, email, password string, verified bool) *models.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := f.users.Create(context.Background(), &models.User{
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hash,
		IsVerified:   verified,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

var linkToken = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

// lastEnvelope pulls the token envelope out of the most recent email.
func (f *fixture) lastEnvelope(t *testing.T) string {
	t.Helper()

	msgs := f.sender.Messages()
	if len(msgs) == 0 {
		t.Fatalf("no email was sent")
	}
	m := linkToken.FindStringSubmatch(msgs[len(msgs)-1].HTML)
	if m == nil {
		t.Fatalf("no token link in email: %s", msgs[len(msgs)-1].HTML)
	}
	return m[1]
}
