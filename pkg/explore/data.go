package explore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// exploreData holds every tracked document and the tracker used to edit them.
type exploreData struct {
	tracker *tracker.Tracker
	docs    []*documentRow
}

// documentRow is the view model for one document.
type documentRow struct {
	Document    string
	Annotations []types.Annotation
	Version     int
	Lines       int // annotated lines
	Updated     string
}

// loadData opens the store at storePath and loads every snapshot.
func loadData(storePath string) (*exploreData, error) {
	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	data, err := newExploreData(tracker.New(s))
	if err != nil {
		s.Close()
		return nil, err
	}
	return data, nil
}

func newExploreData(t *tracker.Tracker) (*exploreData, error) {
	docs, err := t.Documents()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	data := &exploreData{tracker: t}
	for _, doc := range docs {
		data.docs = append(data.docs, buildDocumentRow(doc, t.Snapshot(doc)))
	}
	return data, nil
}

func buildDocumentRow(doc string, snap types.Snapshot) *documentRow {
	row := &documentRow{
		Document:    doc,
		Annotations: snap.Annotations,
		Version:     snap.DocumentVersion,
		Lines:       snap.AnnotatedLines(),
	}
	if !snap.LastUpdatedAt.IsZero() {
		row.Updated = snap.LastUpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return row
}

// removeAnnotation deletes one annotation and refreshes row.
func (d *exploreData) removeAnnotation(row *documentRow, a types.Annotation) error {
	snap, err := d.tracker.Remove(row.Document, a.StartLine, a.EndLine, a.CreatedAt)
	if err != nil {
		return err
	}
	*row = *buildDocumentRow(row.Document, snap)
	return nil
}

// clearDocument deletes every annotation of row.
func (d *exploreData) clearDocument(row *documentRow) error {
	if err := d.tracker.Clear(row.Document); err != nil {
		return err
	}
	*row = *buildDocumentRow(row.Document, types.Snapshot{})
	return nil
}

func (d *exploreData) close() error {
	return d.tracker.Close()
}

// localPath returns the filesystem path of doc when it names a local file.
func localPath(doc string) (string, bool) {
	if !strings.Contains(doc, "://") {
		return doc, doc != ""
	}
	u, err := url.Parse(doc)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}
