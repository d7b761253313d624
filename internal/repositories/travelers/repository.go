// Package travelers provides persistence for customer records.
package travelers

import (
	"context"

	"github.com/urbanmobility/umob/internal/models"
)

// Repository is the persistence interface for travelers. Email, MobilePhone
// and DrivingLicense are cipher tokens end to end; the repository never sees
// plaintext contact data.
type Repository interface {
	Create(ctx context.Context, tr *models.Traveler) (int64, error)
	GetByCustomerID(ctx context.Context, customerID string) (*models.Traveler, error)
	GetAll(ctx context.Context) ([]models.Traveler, error)
	// SearchPlain matches the term against plaintext columns only
	// (customer id and names). Matching encrypted columns is done in
	// memory by the service after decryption.
	SearchPlain(ctx context.Context, term string) ([]models.Traveler, error)
	Update(ctx context.Context, customerID string, fields map[string]string) error
	Delete(ctx context.Context, customerID string) error
	Count(ctx context.Context) (int, error)
}
