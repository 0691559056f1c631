package types

import "time"

// Kind labels the origin of an annotated line range.
type Kind string

// KindToolGenerated marks lines inserted by an automated tool.
const KindToolGenerated Kind = "tool-generated"

// Annotation is a labeled line range, 1-based and inclusive on both ends.
// Annotations are values: transformations always produce new ones.
type Annotation struct {
	StartLine int       `json:"startLine"`
	EndLine   int       `json:"endLine"`
	CreatedAt time.Time `json:"createdAt"`
	Kind      Kind      `json:"kind"`
}

// NewAnnotation creates a tool-generated annotation covering [start, end].
func NewAnnotation(start, end int, createdAt time.Time) Annotation {
	return Annotation{
		StartLine: start,
		EndLine:   end,
		CreatedAt: createdAt,
		Kind:      KindToolGenerated,
	}
}

// Valid reports whether the range is non-empty (StartLine <= EndLine).
func (a Annotation) Valid() bool {
	return a.StartLine <= a.EndLine
}

// Lines returns the number of lines covered, 0 for an inverted range.
func (a Annotation) Lines() int {
	if !a.Valid() {
		return 0
	}
	return a.EndLine - a.StartLine + 1
}

// Contains reports whether line falls inside the range.
func (a Annotation) Contains(line int) bool {
	return line >= a.StartLine && line <= a.EndLine
}

// WithRange returns a copy of a covering [start, end], keeping label and timestamp.
func (a Annotation) WithRange(start, end int) Annotation {
	a.StartLine = start
	a.EndLine = end
	return a
}

// Shift returns a copy of a moved by delta lines.
func (a Annotation) Shift(delta int) Annotation {
	return a.WithRange(a.StartLine+delta, a.EndLine+delta)
}

// Matches reports whether a is identified by the (start, end, createdAt) triple.
func (a Annotation) Matches(start, end int, createdAt time.Time) bool {
	return a.StartLine == start && a.EndLine == end && a.CreatedAt.Equal(createdAt)
}
