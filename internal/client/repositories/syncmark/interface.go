package syncmark

import (
	"context"
	"time"
)

// Repository persists the single "last successful sync" marker that drives
// the cache freshness policy.
type Repository interface {
	// RecordSyncTime stores t as the moment of the last successful sync,
	// replacing any prior value. The marker must survive restarts.
	RecordSyncTime(ctx context.Context, t time.Time) error

	// LastSyncTime returns the stored marker. The zero time means "never
	// synced". Storage unavailability is deliberately reported the same
	// way, so a broken marker always pushes the caller toward a refresh
	// rather than toward trusting stale data.
	LastSyncTime(ctx context.Context) time.Time

	// Clear resets the marker back to "never synced".
	Clear(ctx context.Context) error
}
