package classify

import (
	"sort"
	"sync"
	"time"
)

// ActionWindow remembers recent host actions for a fixed duration.
// Tags expire lazily on lookup or eagerly through Expire.
type ActionWindow struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	actions map[string]time.Time
}

// NewActionWindow creates a window keeping tags for window. A nil clock
// defaults to time.Now.
func NewActionWindow(window time.Duration, now func() time.Time) *ActionWindow {
	if now == nil {
		now = time.Now
	}
	return &ActionWindow{
		window:  window,
		now:     now,
		actions: make(map[string]time.Time),
	}
}

// Record marks tag as seen now.
func (w *ActionWindow) Record(tag string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.actions[tag] = w.now()
}

// Recent reports whether tag was recorded within the window.
func (w *ActionWindow) Recent(tag string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen, ok := w.actions[tag]
	if !ok {
		return false
	}
	if w.now().Sub(seen) > w.window {
		delete(w.actions, tag)
		return false
	}
	return true
}

// Expire drops every tag older than the window and returns how many were
// removed.
func (w *ActionWindow) Expire() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	removed := 0
	for tag, seen := range w.actions {
		if now.Sub(seen) > w.window {
			delete(w.actions, tag)
			removed++
		}
	}
	return removed
}

// Reset forgets every tag.
func (w *ActionWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.actions = make(map[string]time.Time)
}

// Tags returns the tags currently held, sorted, including ones that have
// expired but not yet been collected.
func (w *ActionWindow) Tags() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	tags := make([]string, 0, len(w.actions))
	for tag := range w.actions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
