// Package scooters provides persistence for fleet records.
package scooters

import (
	"context"

	"github.com/urbanmobility/umob/internal/models"
)

// Repository is the persistence interface for scooters. SerialNumber is a
// cipher token end to end.
type Repository interface {
	Create(ctx context.Context, s *models.Scooter) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Scooter, error)
	GetAll(ctx context.Context) ([]models.Scooter, error)
	Update(ctx context.Context, s *models.Scooter) error
	Delete(ctx context.Context, id int64) error
}
