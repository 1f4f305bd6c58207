package repository

import (
	"context"
	"math"
	"sync"

	"cars-api-go/internal/models"
)

// MemoryCarRepository keeps cars in insertion order.
type MemoryCarRepository struct {
	mu     sync.RWMutex
	cars   []models.Car
	index  map[int64]int
	nextID int64
	// exhausted is set once an ID of math.MaxInt64 is stored.
	exhausted bool
}

// NewMemoryCarRepository returns a repository holding seed. Seed cars with a
// zero ID get one assigned; duplicate IDs in seed are dropped.
func NewMemoryCarRepository(seed ...models.Car) *MemoryCarRepository {
	r := &MemoryCarRepository{
		index:  make(map[int64]int),
		nextID: 1,
	}
	for i := range seed {
		car := seed[i]
		_ = r.save(&car)
	}
	return r
}

func (r *MemoryCarRepository) All(ctx context.Context) ([]models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cars := make([]models.Car, len(r.cars))
	copy(cars, r.cars)
	return cars, nil
}

func (r *MemoryCarRepository) ByID(ctx context.Context, id int64) (models.Car, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.Car{}, false, nil
	}
	return r.cars[i], true, nil
}

func (r *MemoryCarRepository) Save(ctx context.Context, car *models.Car) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(car)
}

func (r *MemoryCarRepository) save(car *models.Car) error {
	if car.ID == 0 {
		if r.exhausted {
			return ErrIDsExhausted
		}
		car.ID = r.nextID
	} else if _, exists := r.index[car.ID]; exists {
		return NewDuplicateCarError(car.ID, "")
	}

	switch {
	case car.ID == math.MaxInt64:
		r.exhausted = true
	case car.ID >= r.nextID:
		r.nextID = car.ID + 1
	}

	r.index[car.ID] = len(r.cars)
	r.cars = append(r.cars, *car)
	return nil
}
