package lambda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cars-api-go/internal/config"
)

// poolHealthCheckPeriod must be non-zero; pgx panics on a zero period.
const poolHealthCheckPeriod = 30 * time.Second

var (
	poolMu sync.Mutex
	pool   *pgxpool.Pool
)

// carsPoolConfig sizes a pgx pool for one Lambda container. Connections are
// never recycled by age or idleness since the container itself is short lived.
func carsPoolConfig(cfg *config.LambdaConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.PoolMaxConns
	poolConfig.MinConns = cfg.PoolMinConns
	poolConfig.MaxConnIdleTime = 0
	poolConfig.MaxConnLifetime = 0
	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod
	return poolConfig, nil
}

// GetConnectionPool returns the container's cars database pool, connecting on
// first use. A failed attempt is not cached, so the next invocation retries.
func GetConnectionPool(ctx context.Context, cfg *config.LambdaConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolMu.Lock()
	defer poolMu.Unlock()

	if pool != nil {
		return pool, nil
	}

	poolConfig, err := carsPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Cars database pool ready",
		zap.Int32("max_connections", poolConfig.MaxConns),
		zap.Int32("min_connections", poolConfig.MinConns),
		zap.String("aurora_endpoint", cfg.AuroraEndpoint),
	)

	pool = p
	return pool, nil
}

// CloseConnectionPool closes the pool; the next GetConnectionPool reconnects.
func CloseConnectionPool() {
	poolMu.Lock()
	defer poolMu.Unlock()

	if pool != nil {
		pool.Close()
		pool = nil
	}
}
