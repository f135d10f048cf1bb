// Package users stores accounts.
package users

import (
	"context"

	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/models"
)

// Repository persists accounts. Lookups of a missing user return
// common.ErrorNotFound; creating a taken username returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListByRole(ctx context.Context, role dm.Role) ([]*models.User, error)
}
