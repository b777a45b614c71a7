package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/adapter/database/sqlite"
)

func TestNewDB_FileDatabasePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")

	db, err := sqlite.NewDB(sqlite.Config{Path: path})
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (id, value, sort_order) VALUES (?, ?, ?)`, "a", "buy milk", 1)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := sqlite.NewDB(sqlite.Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	var value string
	err = reopened.QueryRow(`SELECT value FROM todos WHERE id = ?`, "a").Scan(&value)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", value)
}

func TestNewDB_MemoryDatabaseIsMigrated(t *testing.T) {
	db, err := sqlite.NewDB(sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM todos`).Scan(&count))
	assert.Zero(t, count)
}
