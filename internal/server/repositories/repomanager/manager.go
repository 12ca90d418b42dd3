// Package repomanager vends repository implementations bound to a database
// handle and runs the schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/rajat290/notekeeper/internal/dbx"
	"github.com/rajat290/notekeeper/internal/server/repositories/notes"
	"github.com/rajat290/notekeeper/internal/server/repositories/users"
)

// RepositoryManager builds repositories over either the connection pool or a
// transaction, so services can group several calls with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}
