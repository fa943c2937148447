package countries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
)

// SQLiteRepository implements Repository over a *sql.DB. Unlike the other
// client repositories it holds the DB handle itself rather than a DBTX,
// because ReplaceAll opens its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceAll deletes the current rows and inserts items inside one
// transaction. The countries table uses INTEGER PRIMARY KEY AUTOINCREMENT,
// so ids assigned here never repeat ids from earlier generations. Readers
// observe either the previous generation or the new one, never a mix.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Country) ([]models.Country, error) {
	result := make([]models.Country, len(items))

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from countries`); err != nil {
			return fmt.Errorf("failed to clear countries: %w", err)
		}

		query := `insert into countries (name, region, capital, currency, language, flag)
			values (?, ?, ?, ?, ?, ?)`

		for i, item := range items {
			res, err := tx.ExecContext(ctx, query,
				item.Name, item.Region, item.Capital, item.Currency, item.Language, item.Flag)
			if err != nil {
				return fmt.Errorf("failed to insert country: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read inserted id: %w", err)
			}
			item.ID = id
			result[i] = item
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetAll lists the cached collection ordered by id, which matches the order
// rows were inserted in.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Country, error) {
	query := `select id, name, region, capital, currency, language, flag from countries order by id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select countries: %w", err)
	}
	defer rows.Close()

	var result []models.Country
	for rows.Next() {
		var item models.Country
		if err := rows.Scan(&item.ID, &item.Name, &item.Region, &item.Capital,
			&item.Currency, &item.Language, &item.Flag); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single cached row or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Country, error) {
	query := `select id, name, region, capital, currency, language, flag from countries where id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	c := &models.Country{}
	err := row.Scan(&c.ID, &c.Name, &c.Region, &c.Capital, &c.Currency, &c.Language, &c.Flag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

// Clear removes all cached rows.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from countries`); err != nil {
		return fmt.Errorf("failed to clear countries: %w", err)
	}
	return nil
}
