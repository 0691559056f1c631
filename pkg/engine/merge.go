package engine

import (
	"sort"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// Merge coalesces overlapping and directly adjacent annotations into the
// minimal set of covering ranges, ordered by StartLine.
//
// When two ranges merge, the later CreatedAt survives together with the kind
// of the annotation that carried it.
func Merge(anns []types.Annotation) []types.Annotation {
	if len(anns) <= 1 {
		out := make([]types.Annotation, len(anns))
		copy(out, anns)
		return out
	}

	sorted := make([]types.Annotation, len(anns))
	copy(sorted, anns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartLine != sorted[j].StartLine {
			return sorted[i].StartLine < sorted[j].StartLine
		}
		return sorted[i].EndLine < sorted[j].EndLine
	})

	merged := make([]types.Annotation, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.StartLine > current.EndLine+1 {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.EndLine > current.EndLine {
			current.EndLine = next.EndLine
		}
		if next.CreatedAt.After(current.CreatedAt) {
			current.CreatedAt = next.CreatedAt
			current.Kind = next.Kind
		}
	}
	return append(merged, current)
}
