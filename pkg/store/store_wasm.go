//go:build wasm

package store

import "fmt"

// New always returns a MemoryStore in WASM builds, where the host owns
// persistence. SQLite paths are accepted and ignored so a shared config file
// still loads; PostgreSQL DSNs are rejected since no network driver is built in.
func New(cfg Config) (Store, error) {
	if IsPostgres(cfg.Path) {
		return nil, fmt.Errorf("postgres store unavailable in wasm builds")
	}
	return NewMemory(), nil
}
