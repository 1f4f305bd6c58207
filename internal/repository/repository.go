package repository

import (
	"context"

	"cars-api-go/internal/models"
)

// CarRepository owns car persistence. Implementations must be safe for
// concurrent use by request handlers.
type CarRepository interface {
	// All returns every car in the repository's native order.
	All(ctx context.Context) ([]models.Car, error)
	// ByID reports found=false, with a nil error, when no car has id.
	ByID(ctx context.Context, id int64) (car models.Car, found bool, err error)
	// Save persists car. A zero ID is replaced by the assigned one.
	Save(ctx context.Context, car *models.Car) error
}
