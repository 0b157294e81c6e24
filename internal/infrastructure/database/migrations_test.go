package database

import (
	"io"
	"regexp"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUp(t *testing.T, version uint) string {
	t.Helper()
	source, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer source.Close()

	body, _, err := source.ReadUp(version)
	require.NoError(t, err)
	defer body.Close()

	sql, err := io.ReadAll(body)
	require.NoError(t, err)
	return string(sql)
}

func TestMigrations_Sequence(t *testing.T) {
	source, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := source.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}

// A near-zero cost basis yields percentages far beyond any fixed precision
func TestMigrations_ReturnColumnsUnbounded(t *testing.T) {
	sql := readUp(t, 2)

	for _, column := range []string{"current_value", "absolute_return", "percentage_return"} {
		t.Run(column, func(t *testing.T) {
			pattern := regexp.MustCompile(`(?m)^\s*` + column + `\s+NUMERIC\s+NOT NULL,`)
			assert.Regexp(t, pattern, sql)
		})
	}
}
