// Package classify decides whether a batch of edits was produced by an
// automated tool rather than typed by hand.
package classify

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// Common action tags reported by hosts.
const (
	ActionType  = "type"
	ActionPaste = "paste"
	ActionUndo  = "undo"
	ActionRedo  = "redo"
)

// Config holds the classification heuristics.
type Config struct {
	// MinLines is the number of added lines at which a batch counts as
	// tool-generated. Zero disables the line threshold.
	MinLines int
	// MinChars is the number of characters inserted by multi-line edits at
	// which a batch counts as tool-generated. Zero disables it.
	MinChars int
	// ActionWindow is how long a recorded action suppresses classification.
	ActionWindow time.Duration
	// SuppressActions lists action tags that mark the next edits as human.
	SuppressActions []string
	// IgnorePatterns match inserted text that never counts.
	IgnorePatterns []string
	// Suspended turns classification off entirely.
	Suspended bool
}

// DefaultConfig returns the heuristics used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MinLines:        3,
		MinChars:        120,
		ActionWindow:    2 * time.Second,
		SuppressActions: []string{ActionPaste, ActionUndo, ActionRedo},
	}
}

// Classifier applies Config to edit batches. It is safe for concurrent use.
type Classifier struct {
	cfg       Config
	ignore    []*regexp2.Regexp
	actions   *ActionWindow
	suspended atomic.Bool
}

// Option configures a Classifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for the action window.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New compiles the ignore patterns and returns a Classifier.
func New(cfg Config, opts ...Option) (*Classifier, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Classifier{
		cfg:     cfg,
		actions: NewActionWindow(cfg.ActionWindow, o.now),
	}
	c.suspended.Store(cfg.Suspended)

	for _, pattern := range cfg.IgnorePatterns {
		re, err := regexp2.Compile(pattern, regexp2.RE2|regexp2.Multiline)
		if err != nil {
			// Lookaround and backreferences need the default syntax.
			re, err = regexp2.Compile(pattern, regexp2.Multiline)
			if err != nil {
				return nil, fmt.Errorf("compiling ignore pattern %q: %w", pattern, err)
			}
		}
		re.MatchTimeout = time.Second
		c.ignore = append(c.ignore, re)
	}

	return c, nil
}

// Classify reports whether edits look tool-generated.
func (c *Classifier) Classify(edits []types.EditOperation) bool {
	if len(edits) == 0 || c.suspended.Load() {
		return false
	}
	for _, tag := range c.cfg.SuppressActions {
		if c.actions.Recent(tag) {
			return false
		}
	}
	if c.allIgnored(edits) {
		return false
	}

	added, chars := 0, 0
	for _, e := range edits {
		added += e.AddedLineCount
		if e.AddedLineCount > 0 {
			chars += len([]rune(e.InsertedText))
		}
	}

	if c.cfg.MinLines > 0 && added >= c.cfg.MinLines {
		return true
	}
	return c.cfg.MinChars > 0 && chars >= c.cfg.MinChars
}

func (c *Classifier) allIgnored(edits []types.EditOperation) bool {
	if len(c.ignore) == 0 {
		return false
	}
	for _, e := range edits {
		if !c.ignored(e.InsertedText) {
			return false
		}
	}
	return true
}

func (c *Classifier) ignored(text string) bool {
	for _, re := range c.ignore {
		// A timed out match counts as no match.
		if ok, err := re.MatchString(text); err == nil && ok {
			return true
		}
	}
	return false
}

// Record notes a host action such as a paste or undo.
func (c *Classifier) Record(tag string) {
	c.actions.Record(tag)
}

// Actions exposes the action window.
func (c *Classifier) Actions() *ActionWindow {
	return c.actions
}

// Suspend stops classification until Resume is called.
func (c *Classifier) Suspend() { c.suspended.Store(true) }

// Resume re-enables classification.
func (c *Classifier) Resume() { c.suspended.Store(false) }

// Suspended reports whether classification is off.
func (c *Classifier) Suspended() bool { return c.suspended.Load() }
