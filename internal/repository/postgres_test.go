package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cars-api-go/internal/models"
)

// setupTestDatabase connects to TEST_DATABASE_URL; tests are skipped without it.
func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, RunMigrations(ctx, pool, "../../migrations/001_initial_schema.sql", zap.NewNop()))

	_, err = pool.Exec(ctx, "TRUNCATE cars RESTART IDENTITY")
	require.NoError(t, err)

	return pool
}

func TestPostgresRepositoryRoundTrip(t *testing.T) {
	pool := setupTestDatabase(t)
	ctx := context.Background()
	repo := NewPostgresCarRepository(pool)

	car := models.Car{Make: "Volvo", Model: "240", Year: 1990}
	require.NoError(t, repo.Save(ctx, &car))
	assert.Equal(t, int64(1), car.ID)

	found, ok, err := repo.ByID(ctx, car.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, car, found)
}

func TestPostgresRepositoryExplicitIDAdvancesSequence(t *testing.T) {
	pool := setupTestDatabase(t)
	ctx := context.Background()
	repo := NewPostgresCarRepository(pool)

	require.NoError(t, repo.Save(ctx, &models.Car{ID: 10, Make: "Saab"}))

	next := models.Car{Make: "Audi"}
	require.NoError(t, repo.Save(ctx, &next))
	assert.Equal(t, int64(11), next.ID)

	err := repo.Save(ctx, &models.Car{ID: 10, Make: "Fiat"})
	var dupErr *DuplicateCarError
	assert.ErrorAs(t, err, &dupErr)

	cars, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, int64(10), cars[0].ID)
}

func TestPostgresRepositoryByIDAbsent(t *testing.T) {
	pool := setupTestDatabase(t)

	_, ok, err := NewPostgresCarRepository(pool).ByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}
