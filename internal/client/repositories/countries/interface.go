package countries

import (
	"context"

	"github.com/dmitrijs2005/geokeeper/internal/client/models"
)

// Repository is the durable cache holding the last known-good catalog.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// ReplaceAll swaps the whole cached collection in a single transaction:
	// every existing row is deleted and the given items are inserted with
	// freshly assigned identifiers. The returned slice carries the new IDs
	// in the same order as the input. Identifiers grow monotonically and
	// are never reused across generations.
	ReplaceAll(ctx context.Context, items []models.Country) ([]models.Country, error)

	// GetAll returns the cached collection in insertion order.
	GetAll(ctx context.Context) ([]models.Country, error)

	// GetByID returns a single cached row. A missing id yields
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Country, error)

	// Clear removes every cached row.
	Clear(ctx context.Context) error
}
