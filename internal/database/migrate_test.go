package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_b.sql": {Data: []byte("SELECT 2")},
		"migrations/001_a.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md": {Data: []byte("docs")},
		"migrations/003_c.sql": {Data: []byte("SELECT 3")},
		"migrations/sub/x.sql": {Data: []byte("SELECT 4")},
	}

	names, err := pendingMigrations(fsys, map[string]bool{"002_b.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "003_c.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := pendingMigrations(migrationFiles, nil)
	require.NoError(t, err)
	assert.Contains(t, names, "001_activities.sql")
}
