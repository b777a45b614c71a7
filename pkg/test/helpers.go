package test

import (
	"database/sql"
	"log"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"todolist/internal/adapter/database/sqlite"
)

// InitTestDB returns a migrated, empty in-memory database.
func InitTestDB() *sqlite.DB {
	sqlDB, err := sql.Open("sqlite3", sqlite.MemoryPath)

	if err != nil {
		log.Fatal(err)
	}

	db, err := sqlite.Open(sqlDB, true)

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// SetupTestDB is InitTestDB with the database closed when t finishes.
func SetupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := InitTestDB()
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func CleanDB(t *testing.T, db *sqlite.DB) {
	t.Helper()

	if _, err := db.Exec("DELETE FROM todos"); err != nil {
		t.Fatalf("Failed to clean todos: %v", err)
	}
}
