package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/history"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	History(db dbx.DBTX) history.Repository
}
