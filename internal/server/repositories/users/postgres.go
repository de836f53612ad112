// Package users implements the PostgreSQL-backed users repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, is_verified, is_admin,
		verify_token, verify_token_expiry, forgot_token, forgot_token_expiry, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// ids are UUIDs; anything else cannot exist and would only make postgres complain.
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetPendingToken(ctx context.Context, userID string, kind models.TokenKind, token string, expiresAt time.Time) error {
	tokenCol, expiryCol, err := tokenColumns(kind)
	if err != nil {
		return err
	}

	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s = $2, %s = $3
		 WHERE id = $1`, tokenCol, expiryCol)

	res, err := r.db.ExecContext(ctx, query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) FindByPendingToken(ctx context.Context, kind models.TokenKind, token string, now time.Time) (*models.User, error) {
	tokenCol, expiryCol, err := tokenColumns(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT `+userColumns+` FROM users
		 WHERE %s = $1 AND %s > $2`, tokenCol, expiryCol)

	return scanUser(r.db.QueryRowContext(ctx, query, token, now))
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, userID, token string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE users SET is_verified = TRUE, verify_token = NULL, verify_token_expiry = NULL
		 WHERE id = $1 AND verify_token = $2`

	res, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) ResetPassword(ctx context.Context, userID, token string, passwordHash []byte) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE users SET password_hash = $3, forgot_token = NULL, forgot_token_expiry = NULL
		 WHERE id = $1 AND forgot_token = $2`

	res, err := r.db.ExecContext(ctx, query, userID, token, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func tokenColumns(kind models.TokenKind) (token, expiry string, err error) {
	switch kind {
	case models.TokenKindVerify:
		return "verify_token", "verify_token_expiry", nil
	case models.TokenKindForgot:
		return "forgot_token", "forgot_token_expiry", nil
	default:
		return "", "", fmt.Errorf("unknown token kind %v", kind)
	}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                          models.User
		verifyToken, forgotToken   sql.NullString
		verifyExpiry, forgotExpiry sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsVerified, &u.IsAdmin,
		&verifyToken, &verifyExpiry, &forgotToken, &forgotExpiry, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if verifyToken.Valid {
		u.VerifyToken = &verifyToken.String
	}
	if verifyExpiry.Valid {
		u.VerifyTokenExpiry = &verifyExpiry.Time
	}
	if forgotToken.Valid {
		u.ForgotToken = &forgotToken.String
	}
	if forgotExpiry.Valid {
		u.ForgotTokenExpiry = &forgotExpiry.Time
	}

	return &u, nil
}
