package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/geokeeper/internal/client/migrations"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/countries"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/syncmark"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the client-side storage: the durable catalog cache,
// the metadata key-value store and the sync marker on top of it.
type Repositories struct {
	Metadata  metadata.Repository
	Countries countries.Repository
	SyncMark  syncmark.Repository
}

// RunMigrations brings the local database schema to the latest version.
// Safe to call on every start.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating when absent) the local SQLite database at dsn,
// applies migrations and wires the repositories over it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	meta := metadata.NewSQLiteRepository(db)

	repos := &Repositories{
		Metadata:  meta,
		Countries: countries.NewSQLiteRepository(db),
		SyncMark:  syncmark.NewMetadataRepository(meta),
	}
	return repos, nil
}
