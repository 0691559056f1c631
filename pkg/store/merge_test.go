//go:build !wasm

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_EmptySources(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{},
		DestPath:    "/tmp/dest.db",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no source databases")
}

func TestMerge_NoDestination(t *testing.T) {
	_, err := Merge(MergeConfig{
		SourcePaths: []string{"/tmp/source.db"},
		DestPath:    "",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "destination path is required")
}

func writeDB(t *testing.T, path string, snaps map[string]types.Snapshot) {
	t.Helper()
	s, err := NewSQLite(path)
	require.NoError(t, err)
	for doc, snap := range snaps {
		require.NoError(t, s.Save(doc, snap))
	}
	require.NoError(t, s.Close())
}

func TestMerge_SingleSource(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	sourcePath := filepath.Join(tmpDir, "source.db")
	writeDB(t, sourcePath, map[string]types.Snapshot{
		"a.go": testSnapshot(2, t0, [2]int{1, 5}),
		"b.go": testSnapshot(1, t0),
	})

	// Act
	destPath := filepath.Join(tmpDir, "dest.db")
	stats, err := Merge(MergeConfig{
		SourcePaths: []string{sourcePath},
		DestPath:    destPath,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DocumentsMerged)
	assert.Equal(t, 0, stats.DocumentsSkipped)
	assert.Equal(t, 1, stats.SourcesProcessed)

	dest, err := NewSQLite(destPath)
	require.NoError(t, err)
	defer dest.Close()

	docs, err := dest.Documents()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, docs)

	snap, err := dest.Load("a.go")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.DocumentVersion)
	require.Len(t, snap.Annotations, 1)
}

func TestMerge_NewestSnapshotWins(t *testing.T) {
	// Arrange
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first.db")
	second := filepath.Join(tmpDir, "second.db")

	writeDB(t, first, map[string]types.Snapshot{
		"versioned.go": testSnapshot(9, t0, [2]int{1, 1}),
		"tied.go":      testSnapshot(4, t0, [2]int{2, 2}),
		"only-first":   testSnapshot(1, t0),
	})
	writeDB(t, second, map[string]types.Snapshot{
		"versioned.go": testSnapshot(3, t0.Add(time.Hour), [2]int{7, 7}),
		"tied.go":      testSnapshot(4, t0.Add(time.Minute), [2]int{8, 8}),
	})

	// Act
	destPath := filepath.Join(tmpDir, "dest.db")
	stats, err := Merge(MergeConfig{
		SourcePaths: []string{first, second},
		DestPath:    destPath,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SourcesProcessed)
	assert.Equal(t, 4, stats.DocumentsMerged)
	assert.Equal(t, 1, stats.DocumentsSkipped)

	dest, err := NewSQLite(destPath)
	require.NoError(t, err)
	defer dest.Close()

	versioned, err := dest.Load("versioned.go")
	require.NoError(t, err)
	assert.Equal(t, 9, versioned.DocumentVersion, "higher version beats later update")
	assert.Equal(t, 1, versioned.Annotations[0].StartLine)

	tied, err := dest.Load("tied.go")
	require.NoError(t, err)
	assert.Equal(t, 8, tied.Annotations[0].StartLine, "later update wins a version tie")
}

func TestMerge_DestinationKeepsNewerData(t *testing.T) {
	tmpDir := t.TempDir()
	destPath := filepath.Join(tmpDir, "dest.db")
	sourcePath := filepath.Join(tmpDir, "source.db")

	writeDB(t, destPath, map[string]types.Snapshot{"a.go": testSnapshot(10, t0)})
	writeDB(t, sourcePath, map[string]types.Snapshot{"a.go": testSnapshot(2, t0)})

	stats, err := Merge(MergeConfig{SourcePaths: []string{sourcePath}, DestPath: destPath})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DocumentsMerged)
	assert.Equal(t, 1, stats.DocumentsSkipped)
}

func TestMerge_UnreadableSource(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Merge(MergeConfig{
		SourcePaths: []string{filepath.Join(tmpDir, "empty.db")},
		DestPath:    filepath.Join(tmpDir, "dest.db"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty.db")
}
