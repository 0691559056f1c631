//go:build !wasm

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Load returns the snapshot for doc.
func (s *SQLiteStore) Load(doc string) (types.Snapshot, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM snapshots WHERE document_id = ?", doc).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("querying snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// Save replaces the snapshot for doc.
func (s *SQLiteStore) Save(doc string, snap types.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (document_id, payload, document_version, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			payload = excluded.payload,
			document_version = excluded.document_version,
			last_updated = excluded.last_updated
	`,
		doc,
		payload,
		snap.DocumentVersion,
		snap.LastUpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// Delete removes doc.
func (s *SQLiteStore) Delete(doc string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE document_id = ?", doc); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// Documents lists stored documents.
func (s *SQLiteStore) Documents() ([]string, error) {
	return queryDocuments(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func queryDocuments(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT document_id FROM snapshots ORDER BY document_id")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []string{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func encodeSnapshot(snap types.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	return string(data), nil
}

func decodeSnapshot(payload string) (types.Snapshot, error) {
	var snap types.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return snap, nil
}
