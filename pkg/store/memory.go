package store

import (
	"sort"
	"sync"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// MemoryStore implements Store using a map.
// Used for tests, WASM builds, and ":memory:" paths.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]types.Snapshot
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]types.Snapshot),
	}
}

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load(doc string) (types.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[doc]
	if !ok {
		return types.Snapshot{}, ErrNotFound
	}
	return snap.Clone(), nil
}

// Save stores a copy of snap.
func (m *MemoryStore) Save(doc string, snap types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[doc] = snap.Clone()
	return nil
}

// Delete removes doc.
func (m *MemoryStore) Delete(doc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, doc)
	return nil
}

// Documents lists stored documents.
func (m *MemoryStore) Documents() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]string, 0, len(m.snapshots))
	for doc := range m.snapshots {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
