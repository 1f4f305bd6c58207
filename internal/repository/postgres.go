package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cars-api-go/internal/models"
)

const uniqueViolation = "23505"

type PostgresCarRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCarRepository(pool *pgxpool.Pool) *PostgresCarRepository {
	return &PostgresCarRepository{pool: pool}
}

func (r *PostgresCarRepository) All(ctx context.Context) ([]models.Car, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, make, model, year FROM cars ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]models.Car, 0)
	for rows.Next() {
		var car models.Car
		if err := rows.Scan(&car.ID, &car.Make, &car.Model, &car.Year); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	return cars, rows.Err()
}

func (r *PostgresCarRepository) ByID(ctx context.Context, id int64) (models.Car, bool, error) {
	var car models.Car
	err := r.pool.QueryRow(
		ctx,
		"SELECT id, make, model, year FROM cars WHERE id = $1",
		id,
	).Scan(&car.ID, &car.Make, &car.Model, &car.Year)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Car{}, false, nil
		}
		return models.Car{}, false, err
	}

	return car, true, nil
}

// Save inserts car. Caller-supplied IDs bypass the identity column, so the
// sequence is moved past them inside the same transaction.
func (r *PostgresCarRepository) Save(ctx context.Context, car *models.Car) error {
	if car.ID == 0 {
		return r.pool.QueryRow(
			ctx,
			"INSERT INTO cars (make, model, year) VALUES ($1, $2, $3) RETURNING id",
			car.Make, car.Model, car.Year,
		).Scan(&car.ID)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(
		ctx,
		"INSERT INTO cars (id, make, model, year) VALUES ($1, $2, $3, $4)",
		car.ID, car.Make, car.Model, car.Year,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return NewDuplicateCarError(car.ID, "")
		}
		return err
	}

	_, err = tx.Exec(
		ctx,
		"SELECT setval(pg_get_serial_sequence('cars', 'id'), GREATEST((SELECT MAX(id) FROM cars), 1))",
	)
	if err != nil {
		return fmt.Errorf("failed to advance id sequence: %w", err)
	}

	return tx.Commit(ctx)
}
