package engine

import (
	"sort"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// ApplyBatch maps every annotation through every edit of one commit.
//
// Edits are expressed in the document's original, pre-batch coordinates, so
// they are applied from the highest StartLine to the lowest: a lower edit
// never moves the lines an upper edit refers to. Edits sharing a StartLine
// keep the caller's order.
func ApplyBatch(anns []types.Annotation, edits []types.EditOperation) []types.Annotation {
	current := keepValid(anns...)
	for _, edit := range sortDescending(edits) {
		next := make([]types.Annotation, 0, len(current))
		for _, a := range current {
			next = append(next, Transform(a, edit)...)
		}
		current = next
	}
	return current
}

// sortDescending returns a copy of edits ordered by StartLine, highest first.
func sortDescending(edits []types.EditOperation) []types.EditOperation {
	sorted := make([]types.EditOperation, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartLine > sorted[j].StartLine
	})
	return sorted
}
