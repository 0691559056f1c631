//go:build wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"testing"
	"time"

	"github.com/praetorian-inc/linemark/pkg/serve"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// TestTrackerLifecycle creates a tracker, applies a commit and closes it.
func TestTrackerLifecycle(t *testing.T) {
	result := newTracker(js.Value{}, []js.Value{js.ValueOf("significance:\n  min_lines: 1\n")})

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map result, got %T", result)
	}
	if errMsg, hasError := resultMap["error"]; hasError {
		t.Fatalf("Failed to create tracker: %v", errMsg)
	}
	handle := resultMap["handle"].(int)
	defer closeTracker(js.Value{}, []js.Value{js.ValueOf(handle)})

	req := `{"type":"commit","payload":{"document":"a.go","targetVersion":1,"edits":[{"startLine":2,"endLine":2,"addedLineCount":2,"insertedText":"x\ny\n"}]}}`
	out := request(js.Value{}, []js.Value{js.ValueOf(handle), js.ValueOf(req)})

	raw, ok := out.(string)
	if !ok {
		t.Fatalf("Expected JSON string, got %v", out)
	}
	var resp serve.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Commit failed: %s", resp.Error)
	}

	var data serve.SnapshotData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("Failed to parse snapshot: %v", err)
	}
	if len(data.Snapshot.Annotations) != 1 {
		t.Fatalf("Expected 1 annotation, got %d", len(data.Snapshot.Annotations))
	}
	if got := data.Snapshot.Annotations[0].EndLine; got != 4 {
		t.Errorf("Expected end line 4, got %d", got)
	}
}

// TestInvalidHandle checks requests against unknown handles.
func TestInvalidHandle(t *testing.T) {
	out := request(js.Value{}, []js.Value{js.ValueOf(9999), js.ValueOf(`{"type":"documents"}`)})
	resultMap, ok := out.(map[string]interface{})
	if !ok || resultMap["error"] == nil {
		t.Fatalf("Expected error for invalid handle, got %v", out)
	}
}

// TestApplyCommitJSON exercises the pure engine entry point.
func TestApplyCommitJSON(t *testing.T) {
	now := time.Date(2024, 7, 4, 8, 0, 0, 0, time.UTC)
	out, err := applyCommitJSON("", `{"targetVersion":2,"isSignificant":true,"edits":[{"startLine":5,"endLine":5,"addedLineCount":3}]}`, now)
	if err != nil {
		t.Fatalf("applyCommitJSON: %v", err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("Failed to parse snapshot: %v", err)
	}
	if len(snap.Annotations) != 1 || snap.Annotations[0].StartLine != 5 || snap.Annotations[0].EndLine != 8 {
		t.Errorf("Unexpected annotations: %+v", snap.Annotations)
	}
	if snap.DocumentVersion != 2 {
		t.Errorf("Expected version 2, got %d", snap.DocumentVersion)
	}
}
