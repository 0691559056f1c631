package types

// EditOperation is one atomic "delete a range, then insert text at its start"
// operation. Line numbers are 1-based and refer to pre-edit coordinates.
type EditOperation struct {
	StartLine        int    `json:"startLine"`
	EndLine          int    `json:"endLine"`
	StartChar        int    `json:"startChar"`
	EndChar          int    `json:"endChar"`
	InsertedText     string `json:"insertedText"`
	DeletedCharCount int    `json:"deletedCharCount"`
	AddedLineCount   int    `json:"addedLineCount"`
	DeletedLineCount int    `json:"deletedLineCount"`
}

// LineDelta is the signed shift applied to every line strictly after the
// edited range.
func (e EditOperation) LineDelta() int {
	return e.AddedLineCount - e.DeletedLineCount
}

// Touches reports whether line lies inside the edited range.
func (e EditOperation) Touches(line int) bool {
	return line >= e.StartLine && line <= e.EndLine
}

// Commit is one document-version transition.
type Commit struct {
	TargetVersion int             `json:"targetVersion"`
	IsSignificant bool            `json:"isSignificant"`
	Edits         []EditOperation `json:"edits"`
}
