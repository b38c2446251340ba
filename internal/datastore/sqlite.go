package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mmatsuo0/qlp/internal/conf"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open creates the database file and its directory if needed
func (store *SQLiteStore) Open() error {
	path := store.Settings.Output.SQLite.Path
	if path == "" {
		return dbError(fmt.Errorf("sqlite path is empty"), "open")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dbError(fmt.Errorf("failed to create database directory: %w", err), "open")
		}
	}

	db, err := gorm.Open(sqlite.Open(path), store.gormConfig())
	if err != nil {
		return dbError(fmt.Errorf("failed to open SQLite database: %w", err), "open")
	}

	store.DB = db
	return performAutoMigration(db, store.log(), "SQLite", path)
}
