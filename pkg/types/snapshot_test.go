package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_MarshalShape(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Annotations:     []Annotation{NewAnnotation(3, 8, created)},
		LastUpdatedAt:   created.Add(time.Minute),
		DocumentVersion: 7,
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "highlightedRanges")
	assert.Equal(t, "2024-05-01T12:01:00Z", raw["lastUpdated"])
	assert.Equal(t, float64(7), raw["documentVersion"])

	ranges := raw["highlightedRanges"].([]any)
	require.Len(t, ranges, 1)
	first := ranges[0].(map[string]any)
	assert.Equal(t, float64(3), first["startLine"])
	assert.Equal(t, float64(8), first["endLine"])
	assert.Equal(t, "tool-generated", first["kind"])
}

func TestSnapshot_EmptyRangesAreArray(t *testing.T) {
	data, err := json.Marshal(Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"highlightedRanges":[]`)
}

func TestSnapshot_UnmarshalRestoresState(t *testing.T) {
	input := `{"highlightedRanges":[{"startLine":2,"endLine":4,"createdAt":"2024-05-01T12:00:00.5Z","kind":"tool-generated"}],"lastUpdated":"2024-05-01T12:30:00Z","documentVersion":3}`

	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(input), &snap))

	require.Len(t, snap.Annotations, 1)
	assert.Equal(t, 2, snap.Annotations[0].StartLine)
	assert.Equal(t, 4, snap.Annotations[0].EndLine)
	assert.Equal(t, 500*time.Millisecond, time.Duration(snap.Annotations[0].CreatedAt.Nanosecond()))
	assert.Equal(t, 3, snap.DocumentVersion)
	assert.True(t, snap.LastUpdatedAt.Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)))
}

func TestSnapshot_UnmarshalRejectsBadTimestamp(t *testing.T) {
	var snap Snapshot
	err := json.Unmarshal([]byte(`{"highlightedRanges":[],"lastUpdated":"yesterday","documentVersion":1}`), &snap)
	assert.Error(t, err)
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	now := time.Now()
	snap := Snapshot{Annotations: []Annotation{NewAnnotation(1, 2, now)}}

	clone := snap.Clone()
	clone.Annotations[0].StartLine = 99

	assert.Equal(t, 1, snap.Annotations[0].StartLine)
}

func TestSnapshot_AnnotatedLines(t *testing.T) {
	now := time.Now()
	snap := Snapshot{Annotations: []Annotation{
		NewAnnotation(1, 2, now),
		NewAnnotation(10, 14, now),
	}}
	assert.Equal(t, 7, snap.AnnotatedLines())
}
