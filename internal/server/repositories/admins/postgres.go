// Package admins provides the PostgreSQL-backed repository for operator
// accounts.
package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {

	query :=
		`INSERT INTO admins (username, salt, verifier)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		admin.UserName, admin.Salt, admin.Verifier).Scan(&admin.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.Admin, error) {
	query :=
		`SELECT id, username, salt, verifier FROM admins
		 WHERE username = $1
		 `

	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(&admin.ID, &admin.UserName, &admin.Salt, &admin.Verifier)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}
