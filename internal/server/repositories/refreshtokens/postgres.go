package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/common"
	"github.com/dmitrijs2005/geokeeper/internal/dbx"
	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX, so the same code
// runs standalone or inside the rotation transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, adminID string, token string, validity time.Duration) error {
	query := `INSERT INTO refresh_tokens (admin_id, token, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, adminID, token, time.Now().Add(validity)); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `SELECT admin_id, expires_at FROM refresh_tokens WHERE token = $1`

	row := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&row.AdminID, &row.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return row, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens whose expiry lies before now. Rotation deletes
// tokens that get redeemed; this sweeps the ones that never come back.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged refresh tokens: %w", err)
	}
	return n, nil
}
