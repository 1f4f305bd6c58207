package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatementsDropsComments(t *testing.T) {
	sql := `-- header comment
CREATE TABLE IF NOT EXISTS cars (
    id BIGINT PRIMARY KEY
);

-- index
CREATE INDEX IF NOT EXISTS idx_cars_make ON cars(make);
`

	statements := splitStatements(sql)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS cars")
	assert.Equal(t, "CREATE INDEX IF NOT EXISTS idx_cars_make ON cars(make)", statements[1])
}

func TestReadMigrationFallsBackToSearchPaths(t *testing.T) {
	_, err := readMigration("does/not/exist.sql")
	assert.Error(t, err)

	sql, err := readMigration("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS cars")
}
