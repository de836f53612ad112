package history

import (
	"context"

	"github.com/dmitrijs2005/cloudygo/internal/server/models"
)

type Repository interface {
	// Append records an entry for an existing user, or fails with common.ErrorNotFound.
	Append(ctx context.Context, userID string, entry models.HistoryEntry) error
	// List returns the user's entries, newest first.
	List(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}
