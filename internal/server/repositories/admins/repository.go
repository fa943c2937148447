package admins

import (
	"context"

	"github.com/dmitrijs2005/geokeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByUserName(ctx context.Context, userName string) (*models.Admin, error)
}
