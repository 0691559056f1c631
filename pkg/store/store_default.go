//go:build !wasm

package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseFile is the SQLite file used when a store path names a directory.
const DatabaseFile = "linemark.db"

// New creates a store for native builds.
// ":memory:" returns a MemoryStore, postgres DSNs a PostgresStore, and any
// other path a SQLiteStore. An existing directory holds its database in
// DatabaseFile.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	switch {
	case cfg.Path == MemoryPath:
		return NewMemory(), nil
	case IsPostgres(cfg.Path):
		return NewPostgres(cfg.Path)
	default:
		return NewSQLite(resolveSQLitePath(cfg.Path))
	}
}

func resolveSQLitePath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DatabaseFile)
	}
	return path
}
