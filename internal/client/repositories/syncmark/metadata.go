package syncmark

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/geokeeper/internal/client/repositories/metadata"
)

// markerKey is the metadata key holding the marker, encoded as decimal
// nanoseconds since the Unix epoch.
const markerKey = "last_sync_nanos"

// MetadataRepository implements Repository on top of the generic metadata
// key-value store.
type MetadataRepository struct {
	meta metadata.Repository
}

// NewMetadataRepository returns a marker store backed by meta.
func NewMetadataRepository(meta metadata.Repository) *MetadataRepository {
	return &MetadataRepository{meta: meta}
}

func (r *MetadataRepository) RecordSyncTime(ctx context.Context, t time.Time) error {
	value := strconv.FormatInt(t.UnixNano(), 10)
	if err := r.meta.Set(ctx, markerKey, []byte(value)); err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}
	return nil
}

func (r *MetadataRepository) LastSyncTime(ctx context.Context) time.Time {
	value, err := r.meta.Get(ctx, markerKey)
	if err != nil || value == nil {
		return time.Time{}
	}

	nanos, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil || nanos <= 0 {
		return time.Time{}
	}

	return time.Unix(0, nanos)
}

func (r *MetadataRepository) Clear(ctx context.Context) error {
	if err := r.meta.Delete(ctx, markerKey); err != nil {
		return fmt.Errorf("failed to clear sync time: %w", err)
	}
	return nil
}
