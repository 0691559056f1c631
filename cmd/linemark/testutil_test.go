package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 7, 4, 8, 0, 0, 0, time.UTC)

// useStore points the --store flag at a fresh SQLite file for one test.
func useStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linemark.db")
	storePath = path
	t.Cleanup(func() { storePath = "" })
	return path
}

// seed writes snapshots into the SQLite file at path.
func seed(t *testing.T, path string, snaps map[string]types.Snapshot) {
	t.Helper()
	s, err := store.NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	for doc, snap := range snaps {
		require.NoError(t, s.Save(doc, snap))
	}
}

func load(t *testing.T, path, doc string) types.Snapshot {
	t.Helper()
	s, err := store.NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	snap, err := s.Load(doc)
	require.NoError(t, err)
	return snap
}
