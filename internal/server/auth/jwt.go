// Package auth issues and verifies session credentials: HS256 JWTs carrying
// the user's identity, delivered in an HTTP-only cookie.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity embedded in a session credential.
type Claims struct {
	SubjectID string `json:"subjectId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Claims
}

// Issuer signs and verifies session credentials with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithTTL overrides the credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) { i.ttl = ttl }
}

// WithNow overrides the clock used for both issuing and verifying.
func WithNow(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer for secret. An empty secret is accepted here and
// reported as common.ErrConfiguration by the first Issue or Verify call.
func NewIssuer(secret string, opts ...Option) *Issuer {
	i := &Issuer{
		secret: []byte(secret),
		ttl:    common.SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a signed credential for c that expires after the configured TTL.
func (i *Issuer) Issue(c Claims) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("%w: TOKEN_SECRET is not set", common.ErrConfiguration)
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Claims: c,
	})

	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return s, nil
}

// Verify checks signature, algorithm and expiry of credential. Every failure is
// reported as common.ErrInvalidCredential; callers must not branch on the cause.
func (i *Issuer) Verify(credential string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, fmt.Errorf("%w: TOKEN_SECRET is not set", common.ErrConfiguration)
	}

	tc := &tokenClaims{}
	token, err := jwt.ParseWithClaims(credential, tc,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCredential, err)
	}

	if !token.Valid || tc.SubjectID == "" {
		return nil, common.ErrInvalidCredential
	}

	return &tc.Claims, nil
}
