// Package linemark tracks which line ranges of a text document were produced
// by an automated tool and keeps those ranges accurate as the document is
// edited.
//
// # Basic Usage
//
// The annotation engine is pure and can be used without any storage:
//
//	snap := linemark.NewSnapshot(time.Now())
//	snap = linemark.ApplyCommit(snap, linemark.Commit{
//	    TargetVersion: 2,
//	    IsSignificant: true,
//	    Edits: []linemark.EditOperation{{StartLine: 10, EndLine: 10, AddedLineCount: 4}},
//	}, time.Now())
//
//	for _, a := range snap.Annotations {
//	    fmt.Printf("lines %d-%d are %s\n", a.StartLine, a.EndLine, a.Kind)
//	}
//
// # With Persistence
//
// A Tracker keeps one snapshot per document in a SQLite, PostgreSQL or
// in-memory store and classifies edits on the caller's behalf:
//
//	tracker, err := linemark.NewTracker(linemark.WithStore("linemark.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracker.Close()
//
//	snap, err := tracker.ApplyEdits("file:///src/main.go", 2, edits)
package linemark

import (
	"time"

	"github.com/praetorian-inc/linemark/pkg/config"
	"github.com/praetorian-inc/linemark/pkg/engine"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/linemark" without subpackages.
type (
	// Annotation is a labeled, 1-based inclusive line range.
	Annotation = types.Annotation

	// EditOperation is one "delete a range, then insert text" operation.
	EditOperation = types.EditOperation

	// Commit is one document-version transition.
	Commit = types.Commit

	// Snapshot is the annotation state of one document.
	Snapshot = types.Snapshot

	// Kind labels the origin of an annotation.
	Kind = types.Kind

	// Config is the YAML configuration file.
	Config = config.Config
)

// KindToolGenerated is the default annotation label.
const KindToolGenerated = types.KindToolGenerated

// Errors returned by Tracker methods.
var (
	ErrNotFound     = tracker.ErrNotFound
	ErrStaleVersion = tracker.ErrStaleVersion
	ErrExcluded     = tracker.ErrExcluded
)

// NewSnapshot returns an empty snapshot last updated at now.
func NewSnapshot(now time.Time) Snapshot {
	return types.NewSnapshot(now)
}

// ApplyCommit returns the snapshot that follows snap once commit is applied.
// snap is not modified.
func ApplyCommit(snap Snapshot, commit Commit, now time.Time) Snapshot {
	return engine.ApplyCommit(snap, commit, now)
}

// Transform maps one annotation through one edit.
func Transform(a Annotation, edit EditOperation) []Annotation {
	return engine.Transform(a, edit)
}

// MergeAnnotations combines overlapping and adjacent annotations.
func MergeAnnotations(anns []Annotation) []Annotation {
	return engine.Merge(anns)
}

// LoadConfig parses a YAML configuration over the defaults.
func LoadConfig(data []byte) (*Config, error) {
	return config.Load(data)
}

// Tracker is a persistent, concurrency-safe annotation tracker.
type Tracker struct {
	*tracker.Tracker
}

// trackerConfig holds tracker configuration.
type trackerConfig struct {
	cfg   *config.Config
	store string
	clock func() time.Time
}

// Option configures a Tracker.
type Option func(*trackerConfig)

// WithStore selects the snapshot store: a SQLite path, a postgres:// DSN,
// or ":memory:". Default is an in-memory store.
func WithStore(path string) Option {
	return func(c *trackerConfig) {
		c.store = path
	}
}

// WithConfig uses cfg for significance heuristics, exclusions and the
// annotation kind. Its store is used unless WithStore is also given.
func WithConfig(cfg *Config) Option {
	return func(c *trackerConfig) {
		c.cfg = cfg
	}
}

// WithClock sets the time source for new annotations.
func WithClock(now func() time.Time) Option {
	return func(c *trackerConfig) {
		c.clock = now
	}
}

// NewTracker creates a Tracker.
//
// By default, the tracker:
//   - Keeps snapshots in memory only
//   - Treats edits adding three or more lines as tool-generated
//   - Suppresses classification right after paste, undo and redo
func NewTracker(opts ...Option) (*Tracker, error) {
	c := &trackerConfig{}
	for _, opt := range opts {
		opt(c)
	}

	path := c.store
	if c.cfg == nil {
		c.cfg = config.Default()
		if path == "" {
			path = store.MemoryPath
		}
	}
	if path == "" {
		path = c.cfg.Store
	}

	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return nil, err
	}

	var extra []tracker.Option
	if c.clock != nil {
		extra = append(extra, tracker.WithEngine(engine.New(engine.WithClock(c.clock), engine.WithKind(c.cfg.Kind))))
	}
	t, err := tracker.FromConfig(s, c.cfg, extra...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return &Tracker{Tracker: t}, nil
}
