// Package services contains server-side business logic: accounts and their
// email flows, pending tokens, and weather lookups with history.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/cryptox"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/repomanager"
)

// UserService provides account operations:
//   - Register, VerifyEmail: sign-up with email confirmation
//   - Login: check credentials and mint a session credential
//   - RequestEmail, ResetPassword: resend verification, password recovery
//   - Profile, History: read-only views of the account
type UserService struct {
	conn        *dbx.Conn
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	email       *EmailService
	cipher      *cryptox.TokenCipher
	issuer      *auth.Issuer
}

func NewUserService(conn *dbx.Conn, m repomanager.RepositoryManager, tokens *TokenService, email *EmailService, c *cryptox.TokenCipher, issuer *auth.Issuer) *UserService {
	return &UserService{
		conn:        conn,
		repomanager: m,
		tokens:      tokens,
		email:       email,
		cipher:      c,
		issuer:      issuer,
	}
}

// Register creates an unverified user together with its VERIFY token and
// mails the verification link.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, DeliveryResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, DeliveryResult{}, common.ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, DeliveryResult{}, fmt.Errorf("hash password: %w", err)
	}

	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return nil, DeliveryResult{}, err
	}

	var (
		user  *models.User
		token string
	)
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		user = u

		token, err = s.tokens.IssueTx(ctx, tx, u.ID, models.TokenKindVerify)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, DeliveryResult{}, common.ErrorAlreadyExists
		}
		return nil, DeliveryResult{}, fmt.Errorf("register: %w", err)
	}

	return user, s.email.Deliver(ctx, user.Email, mailer.KindVerify, token), nil
}

// Login returns a session credential. An unknown email is ErrorNotFound, an
// unverified account ErrEmailNotVerified and a wrong password ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repomanager.Users(db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if !user.IsVerified {
		return "", nil, common.ErrEmailNotVerified
	}
	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return "", nil, common.ErrorUnauthorized
	}

	credential, err := s.issuer.Issue(auth.Claims{
		SubjectID: user.ID,
		Username:  user.Username,
		Email:     user.Email,
	})
	if err != nil {
		return "", nil, err
	}

	return credential, user, nil
}

// VerifyEmail opens the envelope from a verification link, marks the owner
// verified and sends the welcome email.
func (s *UserService) VerifyEmail(ctx context.Context, envelope string) (*models.User, DeliveryResult, error) {
	token, err := s.cipher.Decrypt(envelope)
	if err != nil {
		return nil, DeliveryResult{}, err
	}

	user, err := s.tokens.Consume(ctx, models.TokenKindVerify, token)
	if err != nil {
		return nil, DeliveryResult{}, err
	}

	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return nil, DeliveryResult{}, err
	}

	if err := s.repomanager.Users(db).MarkVerified(ctx, user.ID, token); err != nil {
		return nil, DeliveryResult{}, lostRace(err)
	}
	user.IsVerified = true
	user.VerifyToken, user.VerifyTokenExpiry = nil, nil

	return user, s.email.Dispatch(ctx, user.ID, user.Email, mailer.KindWelcome), nil
}

// RequestEmail reissues a VERIFY or FORGET email. The outcome, including an
// unknown address, is only reported in the DeliveryResult so callers can
// answer the same way whether or not the account exists.
func (s *UserService) RequestEmail(ctx context.Context, email string, kind mailer.Kind) (DeliveryResult, error) {
	if _, carries := kind.TokenKind(); !carries {
		return DeliveryResult{}, fmt.Errorf("%w: email type %v cannot be requested", common.ErrInvalidInput, kind)
	}

	email = normalizeEmail(email)

	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return DeliveryResult{Kind: kind, To: email, Err: err}, nil
	}

	user, err := s.repomanager.Users(db).GetByEmail(ctx, email)
	if err != nil {
		return DeliveryResult{Kind: kind, To: email, Err: err}, nil
	}

	return s.email.Dispatch(ctx, user.ID, user.Email, kind), nil
}

// ResetPassword opens the envelope from a reset link and replaces the
// owner's password, clearing the FORGOT token in the same statement.
func (s *UserService) ResetPassword(ctx context.Context, envelope, password string) error {
	if password == "" {
		return common.ErrInvalidInput
	}

	token, err := s.cipher.Decrypt(envelope)
	if err != nil {
		return err
	}

	user, err := s.tokens.Consume(ctx, models.TokenKindForgot, token)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return err
	}

	if err := s.repomanager.Users(db).ResetPassword(ctx, user.ID, token, hash); err != nil {
		return lostRace(err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users(db).GetByID(ctx, userID)
}

// History returns the user's weather lookups, newest first.
func (s *UserService) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	db, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(db).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repomanager.History(db).List(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// lostRace maps a failed compare-and-set clear to ErrTokenNotFound: the token
// was consumed or replaced after it was matched.
func lostRace(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrTokenNotFound
	}
	return err
}
