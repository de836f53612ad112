package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/repomanager"
)

// tokenBytes is the entropy of a pending token; it is stored as hex.
const tokenBytes = 16

// TokenService issues and consumes the one-time VERIFY and FORGOT tokens
// stored on the user row.
type TokenService struct {
	conn        *dbx.Conn
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
	now         func() time.Time
}

func NewTokenService(conn *dbx.Conn, m repomanager.RepositoryManager, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = common.PendingTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{conn: conn, repomanager: m, ttl: ttl, now: now}
}

// Issue generates a fresh token of the given kind for userID and stores it,
// replacing any token of that kind still pending. It returns the plaintext.
func (s *TokenService) Issue(ctx context.Context, userID string, kind models.TokenKind) (string, error) {
	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return "", err
	}
	return s.IssueTx(ctx, db, userID, kind)
}

// IssueTx is Issue against an open transaction.
func (s *TokenService) IssueTx(ctx context.Context, tx dbx.DBTX, userID string, kind models.TokenKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("issue token: unknown kind %v", kind)
	}

	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	expires := s.now().Add(s.ttl)
	if err := s.repomanager.Users(tx).SetPendingToken(ctx, userID, kind, token, expires); err != nil {
		return "", fmt.Errorf("issue %v token: %w", kind, err)
	}

	return token, nil
}

// Consume returns the user holding an unexpired token of the given kind
// equal to token. The token stays stored; the caller clears it with a
// compare-and-set update once the guarded action is done.
func (s *TokenService) Consume(ctx context.Context, kind models.TokenKind, token string) (*models.User, error) {
	if token == "" || !kind.Valid() {
		return nil, common.ErrTokenNotFound
	}

	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(db).FindByPendingToken(ctx, kind, token, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrTokenNotFound
		}
		return nil, fmt.Errorf("consume %v token: %w", kind, err)
	}

	return u, nil
}
