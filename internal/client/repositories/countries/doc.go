// Package countries provides the client-side persistence layer for the
// country catalog.
//
// # Overview
//
// The package defines a Repository interface for bulk and single-row reads
// over Country models (see internal/client/models) and an SQLite-backed
// implementation (SQLiteRepository). The cache is replace-only: the catalog
// is swapped wholesale by ReplaceAll after a successful sync and is never
// mutated row by row.
//
// # Identifiers
//
// Row ids come from an INTEGER PRIMARY KEY AUTOINCREMENT column, so they
// grow monotonically and are never reused, even after ReplaceAll or Clear.
// An id therefore identifies a row only within the cached generation that
// produced it.
//
// # Concurrency
//
// Safe for concurrent use when backed by a properly configured *sql.DB.
// ReplaceAll runs in its own transaction; concurrent readers observe the
// previous generation until the transaction commits.
//
// Typical Usage
//
//	repo := countries.NewSQLiteRepository(db)
//	saved, _ := repo.ReplaceAll(ctx, fetched)
//	list, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.Clear(ctx)
package countries
