package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the persisted annotation state of one document.
// Snapshots are replaced wholesale, never mutated in place.
type Snapshot struct {
	Annotations     []Annotation
	LastUpdatedAt   time.Time
	DocumentVersion int
}

// snapshotJSON is the wire shape shared with editor-side stores.
type snapshotJSON struct {
	HighlightedRanges []Annotation `json:"highlightedRanges"`
	LastUpdated       string       `json:"lastUpdated"`
	DocumentVersion   int          `json:"documentVersion"`
}

// NewSnapshot returns the empty snapshot of a newly observed document.
func NewSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Annotations:   []Annotation{},
		LastUpdatedAt: now,
	}
}

// Clone returns a copy that shares no slice memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Annotations = make([]Annotation, len(s.Annotations))
	copy(out.Annotations, s.Annotations)
	return out
}

// AnnotatedLines returns the number of lines covered by the annotations.
func (s Snapshot) AnnotatedLines() int {
	total := 0
	for _, a := range s.Annotations {
		total += a.Lines()
	}
	return total
}

// MarshalJSON encodes the snapshot as
// {"highlightedRanges": [...], "lastUpdated": ISO-8601, "documentVersion": n}.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	ranges := s.Annotations
	if ranges == nil {
		ranges = []Annotation{}
	}
	return json.Marshal(snapshotJSON{
		HighlightedRanges: ranges,
		LastUpdated:       s.LastUpdatedAt.UTC().Format(time.RFC3339Nano),
		DocumentVersion:   s.DocumentVersion,
	})
}

// UnmarshalJSON decodes the shape produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var updated time.Time
	if raw.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.LastUpdated)
		if err != nil {
			return fmt.Errorf("parsing lastUpdated: %w", err)
		}
		updated = t
	}

	s.Annotations = raw.HighlightedRanges
	if s.Annotations == nil {
		s.Annotations = []Annotation{}
	}
	s.LastUpdatedAt = updated
	s.DocumentVersion = raw.DocumentVersion
	return nil
}
