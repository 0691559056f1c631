package engine

import (
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
)

// ApplyCommit produces the snapshot that follows snap once commit is applied:
// existing annotations are shifted through the edits, new annotations are
// synthesized for significant commits, and the union is merged.
//
// The snapshot passed in is left untouched. Empty annotation or edit lists
// are valid input.
func ApplyCommit(snap types.Snapshot, commit types.Commit, now time.Time) types.Snapshot {
	return New(WithClock(func() time.Time { return now })).Apply(snap, commit)
}

// Engine applies commits with a configurable clock and annotation kind.
// The zero value is not usable; create one with New.
type Engine struct {
	now  func() time.Time
	kind types.Kind
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for CreatedAt and LastUpdatedAt.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithKind sets the label given to synthesized annotations.
// Default is types.KindToolGenerated.
func WithKind(kind types.Kind) Option {
	return func(e *Engine) {
		if kind != "" {
			e.kind = kind
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:  time.Now,
		kind: types.KindToolGenerated,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Apply runs the commit pipeline against snap: batch shift, synthesis when
// the commit is significant, then merge.
func (e *Engine) Apply(snap types.Snapshot, commit types.Commit) types.Snapshot {
	now := e.now()

	shifted := ApplyBatch(snap.Annotations, commit.Edits)
	if commit.IsSignificant {
		shifted = append(shifted, synthesize(commit.Edits, now, e.kind)...)
	}

	return types.Snapshot{
		Annotations:     Merge(shifted),
		LastUpdatedAt:   now,
		DocumentVersion: commit.TargetVersion,
	}
}
