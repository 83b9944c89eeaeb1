package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "nested", "data.db")}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// schema is idempotent
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("ANIMEVERSE_DB_PATH", "/tmp/custom.db")
	assert.Equal(t, "/tmp/custom.db", DefaultConfig().Path)
}

func TestMustOpenCreatesDataDir(t *testing.T) {
	cfg := Config{Path: filepath.Join(t.TempDir(), "a", "b", "data.db")}

	db := MustOpen(cfg)
	defer db.Close()
	assert.NoError(t, db.Ping())
	assert.DirExists(t, filepath.Dir(cfg.Path))
}
