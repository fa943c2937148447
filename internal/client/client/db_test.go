package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func TestInitDatabase_AppliesMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	if repos.Metadata == nil || repos.Countries == nil || repos.SyncMark == nil {
		t.Fatalf("expected all repositories to be wired")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"countries", "metadata", "goose_db_version"} {
		if !tableExists(t, db, table) {
			t.Fatalf("expected table %q to exist after migrations", table)
		}
	}
}

func TestInitDatabase_RepositoriesUsable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	repos, err := InitDatabase(ctx, dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}

	saved, err := repos.Countries.ReplaceAll(ctx, []models.Country{{Name: "Latvia"}})
	if err != nil {
		t.Fatalf("ReplaceAll error: %v", err)
	}
	if len(saved) != 1 || saved[0].ID == 0 {
		t.Fatalf("expected one saved country with assigned id, got %+v", saved)
	}

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repos.SyncMark.RecordSyncTime(ctx, ts); err != nil {
		t.Fatalf("RecordSyncTime error: %v", err)
	}
	if got := repos.SyncMark.LastSyncTime(ctx); !got.Equal(ts) {
		t.Fatalf("expected marker %v, got %v", ts, got)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (first) error: %v", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations (second) should be idempotent, got error: %v", err)
	}
}
