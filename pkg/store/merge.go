//go:build !wasm

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/praetorian-inc/linemark/pkg/types"
	"golang.org/x/sync/errgroup"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	DocumentsMerged  int
	DocumentsSkipped int
	SourcesProcessed int
}

// Merge combines several linemark SQLite databases into one.
// Per document the snapshot with the higher document version wins; equal
// versions go to the more recently updated snapshot. Sources are read
// concurrently and applied in the order given.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	sources := make([]map[string]types.Snapshot, len(cfg.SourcePaths))
	g, ctx := errgroup.WithContext(context.Background())
	for i, path := range cfg.SourcePaths {
		g.Go(func() error {
			snaps, err := readAll(ctx, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			sources[i] = snaps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dest, err := NewSQLite(cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer dest.Close()

	stats := &MergeStats{}
	for i, snaps := range sources {
		merged, skipped, err := mergeInto(dest, snaps)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", cfg.SourcePaths[i], err)
		}
		stats.DocumentsMerged += merged
		stats.DocumentsSkipped += skipped
		stats.SourcesProcessed++
	}

	return stats, nil
}

// readAll loads every snapshot of the database at path.
func readAll(ctx context.Context, path string) (map[string]types.Snapshot, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT document_id, payload FROM snapshots")
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make(map[string]types.Snapshot)
	for rows.Next() {
		var doc, payload string
		if err := rows.Scan(&doc, &payload); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snap, err := decodeSnapshot(payload)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc, err)
		}
		snaps[doc] = snap
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snaps, nil
}

func mergeInto(dest *SQLiteStore, snaps map[string]types.Snapshot) (merged, skipped int, err error) {
	for doc, incoming := range snaps {
		existing, err := dest.Load(doc)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return merged, skipped, err
		case !Newer(incoming, existing):
			skipped++
			continue
		}

		if err := dest.Save(doc, incoming); err != nil {
			return merged, skipped, err
		}
		merged++
	}
	return merged, skipped, nil
}

// Newer reports whether a should replace b: a higher document version, or
// the same version updated later.
func Newer(a, b types.Snapshot) bool {
	if a.DocumentVersion != b.DocumentVersion {
		return a.DocumentVersion > b.DocumentVersion
	}
	return a.LastUpdatedAt.After(b.LastUpdatedAt)
}
