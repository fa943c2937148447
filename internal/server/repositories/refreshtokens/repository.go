// Package refreshtokens stores the server side of refresh-token rotation:
// every issued token is persisted so it can be redeemed exactly once, and
// expired leftovers can be swept.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

// Repository is the persistence contract for refresh tokens.
type Repository interface {
	// Create stores a token for adminID expiring at now+validity.
	Create(ctx context.Context, adminID string, token string, validity time.Duration) error

	// Find returns the stored token row, or common.ErrorNotFound when the
	// token was never issued or has already been redeemed.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete redeems a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired sweeps tokens that expired before now and reports how
	// many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
