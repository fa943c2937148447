// Package countries provides the PostgreSQL-backed repository for the origin
// copy of the catalog.
package countries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

// PostgresRepository implements catalog storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetAll returns the full catalog ordered by id, which is insertion order
// for the current dataset generation.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.Country, error) {
	query := `SELECT id, name, region, capital, currency, language, flag_key FROM countries ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select countries: %w", err)
	}
	defer rows.Close()

	var result []models.Country
	for rows.Next() {
		var item models.Country
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Region, &item.Capital, &item.Currency, &item.Language, &item.FlagKey,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Country, error) {
	query :=
		`SELECT id, name, region, capital, currency, language, flag_key FROM countries
		 WHERE name = $1
		 `

	item := &models.Country{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&item.ID, &item.Name, &item.Region, &item.Capital, &item.Currency, &item.Language, &item.FlagKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, country *models.Country) (*models.Country, error) {

	query :=
		`INSERT INTO countries (name, region, capital, currency, language, flag_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		country.Name, country.Region, country.Capital, country.Currency, country.Language, country.FlagKey).Scan(&country.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return country, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM countries`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FlagKeys returns name -> flag_key for every row that has a flag, so flag
// associations can be carried over when the dataset is replaced.
func (r *PostgresRepository) FlagKeys(ctx context.Context) (map[string]string, error) {
	query := `SELECT name, flag_key FROM countries WHERE flag_key <> ''`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select flag keys: %w", err)
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var name, key string
		if err := rows.Scan(&name, &key); err != nil {
			return nil, err
		}
		result[name] = key
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetFlagKey(ctx context.Context, id int64, key string) error {
	query :=
		`UPDATE countries SET flag_key = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
