//go:build !wasm

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// postgresTimeout bounds every statement issued by PostgresStore.
const postgresTimeout = 10 * time.Second

// PostgresStore implements Store on a shared PostgreSQL database, letting
// several editors or machines see the same annotations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and creates the schema.
func NewPostgres(dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO schema_version (version)
		SELECT $1::integer WHERE NOT EXISTS (SELECT 1 FROM schema_version)
	`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			document_id TEXT PRIMARY KEY NOT NULL,
			payload TEXT NOT NULL,
			document_version INTEGER NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}
	return nil
}

// Load returns the snapshot for doc.
func (s *PostgresStore) Load(doc string) (types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	var payload string
	err := s.pool.QueryRow(ctx, "SELECT payload FROM snapshots WHERE document_id = $1", doc).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("querying snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// Save replaces the snapshot for doc.
func (s *PostgresStore) Save(doc string, snap types.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	_, err = s.pool.Exec(ctx, `
		INSERT INTO snapshots (document_id, payload, document_version, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			document_version = EXCLUDED.document_version,
			last_updated = EXCLUDED.last_updated
	`, doc, payload, snap.DocumentVersion, snap.LastUpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// Delete removes doc.
func (s *PostgresStore) Delete(doc string) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, "DELETE FROM snapshots WHERE document_id = $1", doc); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// Documents lists stored documents.
func (s *PostgresStore) Documents() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, "SELECT document_id FROM snapshots ORDER BY document_id")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}
	if docs == nil {
		docs = []string{}
	}
	return docs, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
