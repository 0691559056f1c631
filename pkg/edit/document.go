package edit

import (
	"sync"
	"unicode/utf16"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// Document is the text of one open document, kept in sync with the host so
// that whole-document replacements and unreported deletion lengths can be
// turned into edit operations.
type Document struct {
	mu      sync.RWMutex
	content string
	version int
}

// NewDocument creates a buffer holding content at version.
func NewDocument(content string, version int) *Document {
	return &Document{content: content, version: version}
}

// Content returns the current text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Version returns the version of the last applied change.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// SetVersion records the host's version after a batch of changes.
func (d *Document) SetVersion(version int) {
	d.mu.Lock()
	d.version = version
	d.mu.Unlock()
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return types.CountLines(d.content) + 1
}

// Change applies an incremental change and returns the matching edit
// operation in pre-change coordinates.
func (d *Document) Change(r Range, text string, rangeLength *uint32) types.EditOperation {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := d.offset(r.Start)
	end := d.offset(r.End)
	if end < start {
		start, end = end, start
	}

	op := FromChange(r.Start, r.End, text, rangeLength)
	if rangeLength == nil {
		op.DeletedCharCount = utf16Len(d.content[start:end])
	}

	d.content = d.content[:start] + text + d.content[end:]
	return op
}

// Replace swaps in text as the whole document and returns one edit covering
// every previous line.
func (d *Document) Replace(text string) types.EditOperation {
	d.mu.Lock()
	defer d.mu.Unlock()

	lastLine := types.CountLines(d.content)
	lastStart := types.LineOffset(d.content, lastLine)

	op := types.EditOperation{
		StartLine:        1,
		EndLine:          lastLine + 1,
		EndChar:          utf16Len(d.content[lastStart:]),
		InsertedText:     text,
		DeletedCharCount: utf16Len(d.content),
		AddedLineCount:   types.CountLines(text),
		DeletedLineCount: lastLine,
	}
	d.content = text
	return op
}

// offset converts pos into a byte offset, clamping the character to the end
// of its line and the line to the end of the document.
func (d *Document) offset(pos Position) int {
	lineStart := types.LineOffset(d.content, pos.Line)
	lineEnd := types.LineOffset(d.content, pos.Line+1)
	line := trimBreak(d.content[lineStart:lineEnd])

	units := 0
	for i, r := range line {
		if units >= pos.Character {
			return lineStart + i
		}
		units += utf16.RuneLen(r)
	}
	return lineStart + len(line)
}

func trimBreak(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
