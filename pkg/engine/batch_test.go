package engine

import (
	"sort"
	"testing"

	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyAscending folds edits lowest line first. It exists to show why
// ApplyBatch must not do this.
func applyAscending(anns []types.Annotation, edits []types.EditOperation) []types.Annotation {
	sorted := make([]types.EditOperation, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartLine < sorted[j].StartLine
	})
	current := anns
	for _, e := range sorted {
		var next []types.Annotation
		for _, a := range current {
			next = append(next, Transform(a, e)...)
		}
		current = next
	}
	return current
}

func TestApplyBatch_HighestLineFirst(t *testing.T) {
	anns := []types.Annotation{ann(8, 10)}
	edits := []types.EditOperation{
		insert(5, 3),
		insert(10, 0), // no-op replacement at original line 10
	}

	got := ApplyBatch(anns, edits)

	assert.Equal(t, [][2]int{{11, 12}}, ranges(got))
}

func TestApplyBatch_AscendingOrderCorruptsResult(t *testing.T) {
	anns := []types.Annotation{ann(8, 10)}
	edits := []types.EditOperation{insert(5, 3), insert(10, 0)}

	wrong := applyAscending(anns, edits)
	right := ApplyBatch(anns, edits)

	assert.NotEqual(t, ranges(right), ranges(wrong))
	// Ascending order lets the insertion shift line 10 to 13 before the
	// second edit is applied, so the touched line survives.
	assert.Equal(t, [][2]int{{11, 13}}, ranges(wrong))
}

func TestApplyBatch_OrderOfInputIrrelevant(t *testing.T) {
	anns := []types.Annotation{ann(1, 4), ann(8, 10), ann(20, 30)}
	edits := []types.EditOperation{insert(25, 2), insert(5, 3), replace(9, 9, 0)}
	reversed := []types.EditOperation{edits[2], edits[1], edits[0]}

	assert.Equal(t, ranges(ApplyBatch(anns, edits)), ranges(ApplyBatch(anns, reversed)))
}

func TestApplyBatch_EquivalentToSequentialDescendingCommits(t *testing.T) {
	anns := []types.Annotation{ann(2, 6), ann(12, 20), ann(40, 41)}
	edits := []types.EditOperation{insert(3, 2), replace(14, 16, 0), insert(30, 5), replace(41, 41, 1)}

	batch := ApplyBatch(anns, edits)

	current := anns
	for _, e := range sortDescending(edits) {
		current = ApplyBatch(current, []types.EditOperation{e})
	}

	assert.Equal(t, ranges(batch), ranges(current))
}

func TestApplyBatch_EmptyInputs(t *testing.T) {
	assert.Empty(t, ApplyBatch(nil, []types.EditOperation{insert(1, 1)}))

	anns := []types.Annotation{ann(3, 5)}
	assert.Equal(t, [][2]int{{3, 5}}, ranges(ApplyBatch(anns, nil)))
}

func TestApplyBatch_DropsInvertedInput(t *testing.T) {
	anns := []types.Annotation{ann(3, 5), ann(9, 4)}
	assert.Equal(t, [][2]int{{3, 5}}, ranges(ApplyBatch(anns, nil)))
}

func TestApplyBatch_DoesNotMutateInputs(t *testing.T) {
	anns := []types.Annotation{ann(8, 10)}
	edits := []types.EditOperation{insert(5, 3), insert(10, 0)}

	_ = ApplyBatch(anns, edits)

	require.Len(t, anns, 1)
	assert.Equal(t, 8, anns[0].StartLine)
	assert.Equal(t, 5, edits[0].StartLine, "caller edit order must be preserved")
}

func TestApplyBatch_NetZeroRestoresPosition(t *testing.T) {
	anns := []types.Annotation{ann(20, 25)}
	edits := []types.EditOperation{insert(2, 3), replace(10, 13, 0)}

	assert.Equal(t, [][2]int{{20, 25}}, ranges(ApplyBatch(anns, edits)))
}
