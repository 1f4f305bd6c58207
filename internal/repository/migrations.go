package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// migrationSearchPaths are tried after the configured path. The Lambda
// bundle unpacks into /var/task.
var migrationSearchPaths = []string{
	"migrations/001_initial_schema.sql",
	"./migrations/001_initial_schema.sql",
	"/var/task/migrations/001_initial_schema.sql",
}

func readMigration(path string) ([]byte, error) {
	migrationSQL, err := os.ReadFile(path)
	if err == nil {
		return migrationSQL, nil
	}

	for _, candidate := range migrationSearchPaths {
		if migrationSQL, err = os.ReadFile(candidate); err == nil {
			return migrationSQL, nil
		}
	}

	return nil, fmt.Errorf("failed to read migration file: %w", err)
}

// RunMigrations applies the schema file statement by statement.
// "already exists" errors are ignored so the migration is re-runnable.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, path string, logger *zap.Logger) error {
	migrationSQL, err := readMigration(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	applied := 0
	for _, stmt := range splitStatements(string(migrationSQL)) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("failed to execute migration: %w", err)
			}
			continue
		}
		applied++
	}

	logger.Debug("Database migrations applied", zap.Int("statements", applied))
	return nil
}

func splitStatements(migrationSQL string) []string {
	var statements []string
	for _, stmt := range strings.Split(migrationSQL, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			statements = append(statements, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return statements
}
