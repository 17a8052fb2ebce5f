package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/tmux-chatwatch/internal/colors"
	"github.com/cristianoliveira/tmux-chatwatch/internal/config"
	"github.com/cristianoliveira/tmux-chatwatch/internal/storage/sqlite"
)

// Storage backend names accepted by the storage_backend configuration key.
const (
	// BackendSQLite selects the SQLite-backed storage.
	BackendSQLite = "sqlite"
)

// DBFileName is the name of the SQLite database file inside the state dir.
const DBFileName = "chatwatch.db"

var _ Storage = (*sqlite.SQLiteStorage)(nil)

// NewFromConfig creates a storage backend based on the storage_backend
// configuration key.
func NewFromConfig() (Storage, error) {
	config.Load()
	backend := config.Get("storage_backend", BackendSQLite)
	return NewForBackend(backend)
}

// NewForBackend creates a storage backend by name. Unknown names fall
// back to SQLite with a warning.
func NewForBackend(backend string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to sqlite", backend))
	}
	dbPath := filepath.Join(GetStateDir(), DBFileName)
	return sqlite.NewSQLiteStorage(dbPath)
}
