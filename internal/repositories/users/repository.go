// Package users provides persistence for system user accounts.
package users

import (
	"context"

	"github.com/urbanmobility/umob/internal/models"
)

// Repository is the persistence interface for system users. Username fields
// are cipher tokens; matching by plaintext name is the service layer's job.
type Repository interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}
