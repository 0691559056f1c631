// Package tracker owns the annotation state of every tracked document.
//
// A Tracker loads snapshots from a store, runs commits through the engine one
// document at a time, and writes the results back. Persistence failures are
// logged rather than returned: the in-memory snapshot stays authoritative and
// is written again with the next change.
package tracker

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/praetorian-inc/linemark/pkg/classify"
	"github.com/praetorian-inc/linemark/pkg/config"
	"github.com/praetorian-inc/linemark/pkg/engine"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/tliron/commonlog"
)

var (
	// ErrNotFound is returned when an annotation to remove does not exist.
	ErrNotFound = errors.New("annotation not found")
	// ErrStaleVersion is returned for commits older than the stored snapshot.
	ErrStaleVersion = errors.New("stale document version")
	// ErrExcluded is returned for documents matching an exclude pattern.
	ErrExcluded = errors.New("document excluded")
)

// Tracker serializes commits per document and persists the results.
// It is safe for concurrent use.
type Tracker struct {
	store      store.Store
	engine     *engine.Engine
	classifier *classify.Classifier
	exclude    *config.Excluder
	log        commonlog.Logger

	mu   sync.Mutex
	docs map[string]*document
}

// document is the cached state of one document. mu serializes commits.
// A detached document was dropped by Clear or Forget and must not be written.
type document struct {
	mu       sync.Mutex
	snap     types.Snapshot
	detached bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithEngine replaces the default engine.
func WithEngine(e *engine.Engine) Option {
	return func(t *Tracker) {
		t.engine = e
	}
}

// WithClassifier sets the classifier used by ApplyEdits.
func WithClassifier(c *classify.Classifier) Option {
	return func(t *Tracker) {
		t.classifier = c
	}
}

// WithExcluder skips documents matched by e.
func WithExcluder(e *config.Excluder) Option {
	return func(t *Tracker) {
		t.exclude = e
	}
}

// WithLogger replaces the default "linemark.tracker" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// New creates a Tracker backed by s.
func New(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  s,
		engine: engine.New(),
		log:    commonlog.GetLogger("linemark.tracker"),
		docs:   make(map[string]*document),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromConfig builds a tracker with the engine kind, classifier and exclude
// patterns of cfg.
func FromConfig(s store.Store, cfg *config.Config, opts ...Option) (*Tracker, error) {
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithEngine(engine.New(engine.WithKind(cfg.Kind))),
		WithClassifier(classifier),
		WithExcluder(cfg.Excluder()),
	}
	return New(s, append(base, opts...)...), nil
}

// Classifier returns the configured classifier, or nil.
func (t *Tracker) Classifier() *classify.Classifier {
	return t.classifier
}

// Excluded reports whether doc is never tracked.
func (t *Tracker) Excluded(doc string) bool {
	return t.exclude.Excluded(doc)
}

// Open starts tracking doc at the host's version. Hosts restart version
// numbering when a document is reopened, so the stored version is replaced.
func (t *Tracker) Open(doc string, version int) (types.Snapshot, error) {
	if t.Excluded(doc) {
		return types.Snapshot{}, fmt.Errorf("%s: %w", doc, ErrExcluded)
	}

	d := t.lock(doc)
	defer d.mu.Unlock()

	d.snap.DocumentVersion = version
	t.save(doc, d.snap)
	t.log.Debugf("opened %s at version %d with %d annotations", doc, version, len(d.snap.Annotations))
	return d.snap.Clone(), nil
}

// Apply runs commit against the current snapshot of doc.
func (t *Tracker) Apply(doc string, commit types.Commit) (types.Snapshot, error) {
	if t.Excluded(doc) {
		return types.Snapshot{}, fmt.Errorf("%s: %w", doc, ErrExcluded)
	}

	d := t.lock(doc)
	defer d.mu.Unlock()

	if commit.TargetVersion < d.snap.DocumentVersion {
		return d.snap.Clone(), fmt.Errorf("%w: %s is at version %d, commit targets %d",
			ErrStaleVersion, doc, d.snap.DocumentVersion, commit.TargetVersion)
	}

	d.snap = t.engine.Apply(d.snap, commit)
	t.save(doc, d.snap)
	t.log.Debugf("applied %d edits to %s (version %d, significant %t): %d annotations",
		len(commit.Edits), doc, commit.TargetVersion, commit.IsSignificant, len(d.snap.Annotations))
	return d.snap.Clone(), nil
}

// ApplyEdits classifies edits and applies them as one commit.
func (t *Tracker) ApplyEdits(doc string, version int, edits []types.EditOperation) (types.Snapshot, error) {
	return t.Apply(doc, types.Commit{
		TargetVersion: version,
		IsSignificant: t.Classify(edits),
		Edits:         edits,
	})
}

// Classify reports whether edits look tool-generated. Without a classifier
// nothing is.
func (t *Tracker) Classify(edits []types.EditOperation) bool {
	if t.classifier == nil {
		return false
	}
	return t.classifier.Classify(edits)
}

// RecordAction notes a host action for the classifier.
func (t *Tracker) RecordAction(tag string) {
	if t.classifier != nil {
		t.classifier.Record(tag)
	}
}

// Snapshot returns the current snapshot of doc. Documents that were never
// seen, or that cannot be loaded, yield an empty snapshot.
func (t *Tracker) Snapshot(doc string) types.Snapshot {
	t.mu.Lock()
	d, ok := t.docs[doc]
	t.mu.Unlock()
	if !ok {
		return t.load(doc)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.detached {
		return t.load(doc)
	}
	return d.snap.Clone()
}

// Remove deletes the annotation identified by the exact triple.
func (t *Tracker) Remove(doc string, start, end int, createdAt time.Time) (types.Snapshot, error) {
	d := t.lock(doc)
	defer d.mu.Unlock()

	kept := make([]types.Annotation, 0, len(d.snap.Annotations))
	found := false
	for _, a := range d.snap.Annotations {
		if !found && a.Matches(start, end, createdAt) {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return d.snap.Clone(), fmt.Errorf("%w: [%d,%d] created %s in %s",
			ErrNotFound, start, end, createdAt.Format(time.RFC3339Nano), doc)
	}

	d.snap = types.Snapshot{
		Annotations:     kept,
		LastUpdatedAt:   t.engine.Now(),
		DocumentVersion: d.snap.DocumentVersion,
	}
	t.save(doc, d.snap)
	return d.snap.Clone(), nil
}

// Clear drops every annotation of doc, in memory and in the store. It waits
// for a commit in flight on doc to finish first.
func (t *Tracker) Clear(doc string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detach(doc)

	if err := t.store.Delete(doc); err != nil {
		return fmt.Errorf("clearing %s: %w", doc, err)
	}
	return nil
}

// Forget drops the cached state of doc. The stored snapshot is kept and
// reloaded on next use.
func (t *Tracker) Forget(doc string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detach(doc)
}

// detach removes doc from the cache. t.mu must be held.
func (t *Tracker) detach(doc string) {
	d, ok := t.docs[doc]
	if !ok {
		return
	}
	d.mu.Lock()
	d.detached = true
	d.mu.Unlock()
	delete(t.docs, doc)
}

// Documents lists every document with stored or cached state.
func (t *Tracker) Documents() ([]string, error) {
	stored, err := t.store.Documents()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	for _, doc := range stored {
		seen[doc] = true
	}
	t.mu.Lock()
	for doc := range t.docs {
		if !seen[doc] {
			stored = append(stored, doc)
		}
	}
	t.mu.Unlock()

	sort.Strings(stored)
	return stored, nil
}

// Close closes the store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

// lock returns the cached state of doc with its mutex held. A document
// detached while the caller waited is replaced by a fresh load.
func (t *Tracker) lock(doc string) *document {
	for {
		d := t.document(doc)
		d.mu.Lock()
		if !d.detached {
			return d
		}
		d.mu.Unlock()
	}
}

// document returns the cached state of doc, loading it on first use.
func (t *Tracker) document(doc string) *document {
	t.mu.Lock()
	defer t.mu.Unlock()

	if d, ok := t.docs[doc]; ok {
		return d
	}
	d := &document{snap: t.load(doc)}
	t.docs[doc] = d
	return d
}

func (t *Tracker) load(doc string) types.Snapshot {
	snap, err := t.store.Load(doc)
	switch {
	case err == nil:
		return snap
	case errors.Is(err, store.ErrNotFound):
	default:
		t.log.Errorf("loading %s, starting empty: %s", doc, err)
	}
	return types.NewSnapshot(t.engine.Now())
}

func (t *Tracker) save(doc string, snap types.Snapshot) {
	if err := t.store.Save(doc, snap); err != nil {
		t.log.Errorf("saving %s: %s", doc, err)
	}
}
