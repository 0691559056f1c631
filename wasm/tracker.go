//go:build wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"
	"time"

	"github.com/praetorian-inc/linemark/pkg/config"
	"github.com/praetorian-inc/linemark/pkg/engine"
	"github.com/praetorian-inc/linemark/pkg/serve"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
)

var (
	servers   = make(map[int]*serve.Server)
	trackers  = make(map[int]*tracker.Tracker)
	serversMu sync.RWMutex
	nextID    int
)

// newTracker creates an in-memory tracker from optional YAML configuration.
// JS: LinemarkNewTracker([configYAML]) -> {handle} or {error}
func newTracker(this js.Value, args []js.Value) interface{} {
	cfg := config.Default()
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		loaded, err := config.Load([]byte(args[0].String()))
		if err != nil {
			return map[string]interface{}{"error": "invalid configuration: " + err.Error()}
		}
		cfg = loaded
	}

	// Browser hosts persist snapshots themselves.
	st, err := store.New(store.Config{Path: cfg.Store})
	if err != nil {
		return map[string]interface{}{"error": "failed to open store: " + err.Error()}
	}
	t, err := tracker.FromConfig(st, cfg)
	if err != nil {
		return map[string]interface{}{"error": "failed to create tracker: " + err.Error()}
	}

	serversMu.Lock()
	id := nextID
	nextID++
	trackers[id] = t
	servers[id] = serve.NewServer(t, nil, nil)
	serversMu.Unlock()

	return map[string]interface{}{"handle": id}
}

// request runs one request of the NDJSON protocol against a tracker.
// JS: LinemarkRequest(handle, requestJSON) -> responseJSON or {error}
func request(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and request arguments required"}
	}

	serversMu.RLock()
	srv, ok := servers[args[0].Int()]
	serversMu.RUnlock()
	if !ok {
		return map[string]interface{}{"error": "invalid tracker handle"}
	}

	var req serve.Request
	if err := json.Unmarshal([]byte(args[1].String()), &req); err != nil {
		return map[string]interface{}{"error": "invalid request JSON: " + err.Error()}
	}

	resp, exit := srv.Dispatch(req)
	if exit {
		return map[string]interface{}{"closed": true}
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal response: " + err.Error()}
	}
	return string(out)
}

// closeTracker releases a tracker.
// JS: LinemarkCloseTracker(handle)
func closeTracker(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	handle := args[0].Int()

	serversMu.Lock()
	t, ok := trackers[handle]
	delete(trackers, handle)
	delete(servers, handle)
	serversMu.Unlock()

	if ok {
		t.Close()
	}
	return nil
}

// applyCommit runs the pure annotation engine without any tracker state.
// JS: LinemarkApplyCommit(snapshotJSON, commitJSON) -> snapshotJSON or {error}
func applyCommit(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "snapshot and commit arguments required"}
	}
	out, err := applyCommitJSON(args[0].String(), args[1].String(), time.Now())
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	return out
}

func applyCommitJSON(snapJSON, commitJSON string, now time.Time) (string, error) {
	snap := types.NewSnapshot(now)
	if snapJSON != "" {
		if err := json.Unmarshal([]byte(snapJSON), &snap); err != nil {
			return "", err
		}
	}
	var commit types.Commit
	if err := json.Unmarshal([]byte(commitJSON), &commit); err != nil {
		return "", err
	}

	out, err := json.Marshal(engine.ApplyCommit(snap, commit, now))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
