package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/memberportal/internal/dbx"
	"github.com/dmitrijs2005/memberportal/internal/server/repositories/members"
)

// RepositoryManager vends repositories bound to a DB handle or transaction.
type RepositoryManager interface {
	Members(db dbx.DBTX) members.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
