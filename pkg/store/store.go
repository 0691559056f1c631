package store

import (
	"errors"
	"strings"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// ErrNotFound is returned by Load for documents that have no snapshot.
var ErrNotFound = errors.New("snapshot not found")

// Store persists one snapshot per document.
// Documents are identified by an opaque string, usually a URI or path.
type Store interface {
	// Load returns the snapshot for doc, or ErrNotFound.
	Load(doc string) (types.Snapshot, error)

	// Save replaces the snapshot for doc.
	Save(doc string, snap types.Snapshot) error

	// Delete removes doc. Deleting an unknown document is not an error.
	Delete(doc string) error

	// Documents lists every stored document, sorted.
	Documents() ([]string, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path selects the backend:
	// ":memory:" for an in-memory store, a postgres:// or postgresql:// DSN
	// for PostgreSQL, anything else is a SQLite database file.
	Path string
}

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// IsPostgres reports whether path is a PostgreSQL connection string.
func IsPostgres(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}
