package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geokeeper/internal/dbx"
)

// SQLiteRepository implements Repository over the metadata table. It takes a
// DBTX so callers can run it inside a transaction when a change has to land
// together with other writes.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `select value from metadata where key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read metadata key %q: %w", key, err)
	}
	return value, nil
}

// Set inserts the key or overwrites its previous value.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `insert into metadata (key, value) values (?, ?)
		on conflict(key) do update set value = excluded.value`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save metadata key %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `delete from metadata where key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete metadata key %q: %w", key, err)
	}
	return nil
}
