//go:build !wasm

package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// postgresDSN returns the test database DSN or skips the test.
func postgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("LINEMARK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LINEMARK_TEST_POSTGRES_DSN not set")
	}
	return dsn
}

func TestPostgres_Contract(t *testing.T) {
	store, err := NewPostgres(postgresDSN(t))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.pool.Exec(t.Context(), "DELETE FROM snapshots")
	require.NoError(t, err)

	testStoreContract(t, store)
}

func TestNew_PostgresDispatch(t *testing.T) {
	s, err := New(Config{Path: postgresDSN(t)})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*PostgresStore)
	require.True(t, ok)
}

func TestPostgres_Interface(t *testing.T) {
	var _ Store = (*PostgresStore)(nil)
}
