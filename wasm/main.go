//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	exports := map[string]func(js.Value, []js.Value) interface{}{
		"LinemarkNewTracker":   newTracker,
		"LinemarkRequest":      request,
		"LinemarkApplyCommit":  applyCommit,
		"LinemarkCloseTracker": closeTracker,
	}
	for name, fn := range exports {
		js.Global().Set(name, js.FuncOf(fn))
	}

	// Block forever; the host calls back into the exports.
	select {}
}
