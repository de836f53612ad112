package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/server/models"
)

// Repository persists users and their pending tokens. Every method is a
// single SQL statement, so each change to a user row is atomic.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetPendingToken overwrites the token of the given kind.
	SetPendingToken(ctx context.Context, userID string, kind models.TokenKind, token string, expiresAt time.Time) error
	// FindByPendingToken matches the token of the given kind whose expiry is after now.
	FindByPendingToken(ctx context.Context, kind models.TokenKind, token string, now time.Time) (*models.User, error)

	// MarkVerified and ResetPassword clear the pending token only if it still equals token.
	MarkVerified(ctx context.Context, userID, token string) error
	ResetPassword(ctx context.Context, userID, token string, passwordHash []byte) error
}
