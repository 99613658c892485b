package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestMigrationFiles_SettlementSchema(t *testing.T) {
	up, err := fs.ReadFile(migrationFiles, "migrations/000001_create_users_and_transactions.up.sql")
	require.NoError(t, err)

	schema := string(up)
	assert.Contains(t, schema, "reference VARCHAR(200) NOT NULL UNIQUE")
	assert.Contains(t, schema, "balance NUMERIC(20, 2)")
	assert.Contains(t, schema, "status VARCHAR(20) NOT NULL DEFAULT 'pending'")
}

func TestRollbackMigrations_RejectsNonPositiveSteps(t *testing.T) {
	err := RollbackMigrations(nil, 0)
	assert.ErrorContains(t, err, "steps must be positive")
}
