package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

const (
	defaultLambdaPoolMaxConns = 2
	defaultLambdaPoolMinConns = 1
)

// LambdaConfig holds Lambda-specific configuration
type LambdaConfig struct {
	*Config
	// Aurora Serverless specific settings
	AuroraEndpoint   string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Per-container pool bounds. RDS Proxy does the real pooling, so these stay small.
	PoolMaxConns int32
	PoolMinConns int32
}

// LoadLambdaConfig loads configuration for Lambda environment.
// Supports both direct DATABASE_URL and Aurora Serverless component-based configuration
func LoadLambdaConfig() (*LambdaConfig, error) {
	base, err := Load()
	if err != nil {
		return nil, err
	}

	cfg := &LambdaConfig{Config: base}

	if cfg.PoolMaxConns, err = poolSize("DB_POOL_MAX_CONNS", defaultLambdaPoolMaxConns); err != nil {
		return nil, err
	}
	if cfg.PoolMinConns, err = poolSize("DB_POOL_MIN_CONNS", defaultLambdaPoolMinConns); err != nil {
		return nil, err
	}
	if cfg.PoolMinConns > cfg.PoolMaxConns {
		return nil, fmt.Errorf("DB_POOL_MIN_CONNS (%d) exceeds DB_POOL_MAX_CONNS (%d)", cfg.PoolMinConns, cfg.PoolMaxConns)
	}

	if os.Getenv("DATABASE_URL") != "" {
		return cfg, nil
	}

	auroraEndpoint := os.Getenv("AURORA_ENDPOINT")
	databaseName := os.Getenv("DATABASE_NAME")
	databaseUser := os.Getenv("DATABASE_USER")
	databasePassword := os.Getenv("DATABASE_PASSWORD")

	if auroraEndpoint != "" && databaseName != "" && databaseUser != "" && databasePassword != "" {
		// Aurora Serverless listens on the standard postgres port
		auroraURL := url.URL{
			Scheme: "postgresql",
			User:   url.UserPassword(databaseUser, databasePassword),
			Host:   auroraEndpoint + ":5432",
			Path:   "/" + databaseName,
		}
		cfg.DatabaseURL = auroraURL.String()
		cfg.AuroraEndpoint = auroraEndpoint
		cfg.DatabaseName = databaseName
		cfg.DatabaseUser = databaseUser
		cfg.DatabasePassword = databasePassword
	}

	return cfg, nil
}

func poolSize(name string, fallback int32) (int32, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return int32(n), nil
}
