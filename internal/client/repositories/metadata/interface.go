// Package metadata is a small key-value store inside the client database.
// It keeps the bits of state that must survive a restart but are not part
// of the catalog itself: the session token pair and the last-sync marker.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. A Get on a missing key returns
// (nil, nil) so callers can distinguish "absent" from a storage failure.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
