// Package repomanager hands out repository instances bound to a DBTX, so a
// service can run several repositories inside one transaction by passing the
// same *sql.Tx to each factory.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/admins"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/countries"
	"github.com/dmitrijs2005/geokeeper/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Countries(db dbx.DBTX) countries.Repository
	Admins(db dbx.DBTX) admins.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
