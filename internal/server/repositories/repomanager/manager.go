package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/leavekeeper/internal/dbx"
	"github.com/dmitrijs2005/leavekeeper/internal/server/repositories/leaves"
	"github.com/dmitrijs2005/leavekeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB or a transaction, so a
// service can run several of them inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Leaves(db dbx.DBTX) leaves.Repository
}
