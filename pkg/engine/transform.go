// Package engine transforms annotated line ranges through document edits.
//
// Every function in this package is pure: inputs are never mutated and the
// same inputs always produce the same outputs. Line numbers are 1-based and
// inclusive on both ends throughout.
package engine

import "github.com/praetorian-inc/linemark/pkg/types"

// Transform maps one annotation through one edit, returning zero, one or two
// annotations.
//
// Any line inside [edit.StartLine, edit.EndLine] loses its annotation, even
// for zero-width insertions or replacements with identical text. Lines before
// the edit are kept as they are; lines after it are shifted by the edit's
// line delta.
func Transform(a types.Annotation, edit types.EditOperation) []types.Annotation {
	delta := edit.LineDelta()

	// Entirely before the edit.
	if a.EndLine < edit.StartLine {
		return keepValid(a)
	}

	// Entirely after the edit.
	if a.StartLine > edit.EndLine {
		return keepValid(a.Shift(delta))
	}

	// Overlap: keep the head and the shifted tail, drop the edited lines.
	out := make([]types.Annotation, 0, 2)
	if a.StartLine < edit.StartLine {
		out = append(out, a.WithRange(a.StartLine, edit.StartLine-1))
	}
	if a.EndLine > edit.EndLine {
		start := edit.EndLine + 1 + delta
		end := start + (a.EndLine - edit.EndLine) - 1
		out = append(out, a.WithRange(start, end))
	}
	return keepValid(out...)
}

// keepValid drops inverted ranges.
func keepValid(anns ...types.Annotation) []types.Annotation {
	out := make([]types.Annotation, 0, len(anns))
	for _, a := range anns {
		if a.Valid() {
			out = append(out, a)
		}
	}
	return out
}
