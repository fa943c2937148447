package countries

import (
	"context"

	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

// Repository methods are single statements so the catalog service can
// compose them inside one transaction when the dataset is replaced.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Country, error)
	GetByName(ctx context.Context, name string) (*models.Country, error)
	Create(ctx context.Context, country *models.Country) (*models.Country, error)
	DeleteAll(ctx context.Context) error
	FlagKeys(ctx context.Context) (map[string]string, error)
	SetFlagKey(ctx context.Context, id int64, key string) error
}
