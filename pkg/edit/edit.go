// Package edit converts host editor change events into edit operations.
//
// Hosts report changes with 0-based lines and characters counted in UTF-16
// code units, the convention shared by LSP and VS Code. Edit operations use
// 1-based lines.
package edit

import (
	"github.com/praetorian-inc/linemark/pkg/types"
)

// Position is a 0-based location in a document. Character counts UTF-16 code
// units from the start of the line.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span [Start, End) of a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FromChange converts one host change event. rangeLength is the number of
// replaced characters when the host reports it; nil leaves DeletedCharCount
// at zero.
func FromChange(start, end Position, text string, rangeLength *uint32) types.EditOperation {
	op := types.EditOperation{
		StartLine:        start.Line + 1,
		EndLine:          end.Line + 1,
		StartChar:        start.Character,
		EndChar:          end.Character,
		InsertedText:     text,
		AddedLineCount:   types.CountLines(text),
		DeletedLineCount: end.Line - start.Line,
	}
	if rangeLength != nil {
		op.DeletedCharCount = int(*rangeLength)
	}
	return op
}

// ToRange converts a 1-based inclusive annotation into a 0-based half-open
// range spanning its full lines.
func ToRange(a types.Annotation) Range {
	return Range{
		Start: Position{Line: a.StartLine - 1},
		End:   Position{Line: a.EndLine},
	}
}
