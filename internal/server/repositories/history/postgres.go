// Package history implements the PostgreSQL-backed weather lookup history.
package history

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID string, e models.HistoryEntry) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrorNotFound
	}

	// Inserting from the users row makes "user exists" and "append" one statement.
	query :=
		`INSERT INTO user_history (user_id, city, lon, lat, temperature, recorded_at)
		 SELECT id, $2, $3, $4, $5, $6 FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, e.City, e.Lon, e.Lat, e.Temperature, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT city, lon, lat, temperature, recorded_at FROM user_history
		 WHERE user_id = $1
		 ORDER BY recorded_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.City, &e.Lon, &e.Lat, &e.Temperature, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
