package serve

import (
	"encoding/json"
	"time"

	"github.com/praetorian-inc/linemark/pkg/edit"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	// "open" | "commit" | "change" | "snapshot" | "remove" | "clear" |
	// "action" | "documents" | "close"
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OpenPayload is the payload for "open" requests
type OpenPayload struct {
	Document string `json:"document"`
	Version  int    `json:"version"`
}

// CommitPayload is the payload for "commit" requests. Edits are 1-based.
// When IsSignificant is omitted the server's classifier decides.
type CommitPayload struct {
	Document      string                `json:"document"`
	TargetVersion int                   `json:"targetVersion"`
	IsSignificant *bool                 `json:"isSignificant,omitempty"`
	Edits         []types.EditOperation `json:"edits"`
}

// ChangePayload is the payload for "change" requests: raw 0-based host
// change events, applied in order.
type ChangePayload struct {
	Document string        `json:"document"`
	Version  int           `json:"version"`
	Changes  []ChangeEvent `json:"changes"`
}

// ChangeEvent is one host content change.
type ChangeEvent struct {
	Range       edit.Range `json:"range"`
	RangeLength *uint32    `json:"rangeLength,omitempty"`
	Text        string     `json:"text"`
}

// DocumentPayload is the payload for "snapshot" and "clear" requests
type DocumentPayload struct {
	Document string `json:"document"`
}

// RemovePayload is the payload for "remove" requests
type RemovePayload struct {
	Document  string    `json:"document"`
	StartLine int       `json:"startLine"`
	EndLine   int       `json:"endLine"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActionPayload is the payload for "action" requests
type ActionPayload struct {
	Tag string `json:"tag"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}

// SnapshotData is the data field for responses carrying a snapshot
type SnapshotData struct {
	Document string         `json:"document"`
	Snapshot types.Snapshot `json:"snapshot"`
}

// DocumentsData is the data field for "documents" responses
type DocumentsData struct {
	Documents []string `json:"documents"`
}
