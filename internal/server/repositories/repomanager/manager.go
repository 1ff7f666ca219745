package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chrima/internal/dbx"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/gamestate"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or an open
// transaction, so a service can run several repositories in one tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	GameState(db dbx.DBTX) gamestate.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
