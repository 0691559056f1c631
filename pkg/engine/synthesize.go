package engine

import (
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// Synthesize creates one annotation per edit of a significant commit, in the
// edits' original order. Each covers [StartLine, StartLine+AddedLineCount] in
// the edit's own coordinates.
func Synthesize(edits []types.EditOperation, now time.Time) []types.Annotation {
	return synthesize(edits, now, types.KindToolGenerated)
}

func synthesize(edits []types.EditOperation, now time.Time, kind types.Kind) []types.Annotation {
	out := make([]types.Annotation, 0, len(edits))
	for _, e := range edits {
		out = append(out, types.Annotation{
			StartLine: e.StartLine,
			EndLine:   e.StartLine + e.AddedLineCount,
			CreatedAt: now,
			Kind:      kind,
		})
	}
	return out
}
