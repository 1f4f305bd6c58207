package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cars-api-go/internal/config"
	"cars-api-go/internal/constants"
)

// Open builds the CarRepository selected by cfg.StorageBackend. The returned
// close function releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (CarRepository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Info(fmt.Sprintf("%s Using in-memory car repository", constants.APIName()))
		return NewMemoryCarRepository(), func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info(fmt.Sprintf("%s Connected to database", constants.APIName()))

		if err := RunMigrations(ctx, pool, cfg.MigrationsPath, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info(fmt.Sprintf("%s Database migrations completed", constants.APIName()))
		return NewPostgresCarRepository(pool), pool.Close, nil

	case config.BackendGormSQLite, config.BackendGormPostgres:
		dialect, dsn := "sqlite", cfg.SQLitePath
		if cfg.StorageBackend == config.BackendGormPostgres {
			dialect, dsn = "postgres", cfg.DatabaseURL
		}

		db, err := OpenGorm(dialect, dsn, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewGormCarRepository(db)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		logger.Info(fmt.Sprintf("%s Using gorm car repository", constants.APIName()), zap.String("dialect", dialect))
		return repo, func() { _ = sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("invalid storage backend: %q", cfg.StorageBackend)
	}
}
