package explore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 7, 4, 8, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, snaps map[string]types.Snapshot) Model {
	t.Helper()
	s := store.NewMemory()
	for doc, snap := range snaps {
		require.NoError(t, s.Save(doc, snap))
	}
	m, err := NewFromTracker(tracker.New(s))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func snapshot(anns ...types.Annotation) types.Snapshot {
	return types.Snapshot{Annotations: anns, LastUpdatedAt: created, DocumentVersion: 3}
}

func TestNewFromTracker_LoadsDocuments(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{
		"b.go": snapshot(types.NewAnnotation(1, 2, created)),
		"a.go": snapshot(types.NewAnnotation(4, 9, created), types.NewAnnotation(20, 20, created)),
	})

	require.Len(t, m.data.docs, 2)
	require.NotNil(t, m.documents.selected())
	assert.Equal(t, "a.go", m.documents.selected().Document)
	assert.Equal(t, 7, m.documents.selected().Lines)
	assert.Equal(t, 3, m.documents.selected().Version)
	assert.Same(t, m.documents.selected(), m.annotations.doc)
}

func TestUpdate_NavigationChangesDocument(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{
		"a.go": snapshot(types.NewAnnotation(1, 2, created)),
		"b.go": snapshot(types.NewAnnotation(3, 4, created)),
	})

	m = press(m, "j")
	assert.Equal(t, "b.go", m.annotations.doc.Document)

	m = press(m, "j")
	assert.Equal(t, "b.go", m.annotations.doc.Document, "cursor stops at the last row")

	m = press(m, "g")
	assert.Equal(t, "a.go", m.annotations.doc.Document)
}

func TestUpdate_SwitchFocus(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{"a.go": snapshot(types.NewAnnotation(1, 2, created))})

	assert.Equal(t, paneDocuments, m.focus)
	m = press(m, "tab")
	assert.Equal(t, paneAnnotations, m.focus)
	assert.True(t, m.annotations.focused)
	assert.False(t, m.documents.focused)
	m = press(m, "h")
	assert.Equal(t, paneDocuments, m.focus)
}

func TestUpdate_RemoveAnnotationPersists(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Save("a.go", snapshot(
		types.NewAnnotation(1, 2, created),
		types.NewAnnotation(5, 6, created),
	)))
	m, err := NewFromTracker(tracker.New(s))
	require.NoError(t, err)

	m = press(m, "l", "j", "x")
	require.NoError(t, m.err)

	require.Len(t, m.annotations.doc.Annotations, 1)
	assert.Equal(t, 1, m.annotations.doc.Annotations[0].StartLine)

	stored, err := s.Load("a.go")
	require.NoError(t, err)
	require.Len(t, stored.Annotations, 1)
	assert.Equal(t, 1, stored.Annotations[0].StartLine)
}

func TestUpdate_ClearDocument(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{
		"a.go": snapshot(types.NewAnnotation(1, 2, created), types.NewAnnotation(5, 6, created)),
	})

	m = press(m, "X")
	require.NoError(t, m.err)
	assert.Empty(t, m.documents.selected().Annotations)
	assert.Zero(t, m.documents.selected().Lines)

	// Nothing left to remove.
	m = press(m, "x")
	assert.NoError(t, m.err)
}

func TestUpdate_SortByAnnotations(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{
		"a.go": snapshot(types.NewAnnotation(1, 2, created)),
		"b.go": snapshot(types.NewAnnotation(1, 2, created), types.NewAnnotation(5, 5, created)),
	})

	m = press(m, "s")
	assert.Equal(t, sortByAnnotations, m.documents.sortBy)
	assert.Equal(t, "b.go", m.documents.rows[0].Document)
	assert.Equal(t, "a.go", m.documents.selected().Document, "selection follows the row")
}

func TestUpdate_QuitAndHelp(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(m, "?")
	assert.Equal(t, overlayHelp, m.activeOverlay)
	m = press(m, "?")
	assert.Equal(t, overlayNone, m.activeOverlay)
}

func TestView_RendersPanes(t *testing.T) {
	m := newTestModel(t, map[string]types.Snapshot{
		"a.go": snapshot(types.NewAnnotation(4, 9, created)),
	})
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	view := next.(Model).View()

	assert.Contains(t, view, "Documents (1)")
	assert.Contains(t, view, "a.go")
	assert.Contains(t, view, "1 documents | 1 annotations")
}

func TestAnnotationsPane_PreviewFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\nfour\nfive\n"), 0o644))

	var ap annotationsPane
	ap.setDocument(&documentRow{Document: "file://" + path, Annotations: []types.Annotation{types.NewAnnotation(2, 3, created)}})
	require.NotEmpty(t, ap.source)

	a, ok := ap.selected()
	require.True(t, ok)
	preview := strings.Join(ap.preview(a, 80), "\n")
	assert.Contains(t, preview, "two")
	assert.Contains(t, preview, "three")
	assert.Contains(t, preview, "five")
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		doc  string
		path string
		ok   bool
	}{
		{"/src/main.go", "/src/main.go", true},
		{"file:///src/main.go", "/src/main.go", true},
		{"untitled://Untitled-1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		path, ok := localPath(tt.doc)
		assert.Equal(t, tt.ok, ok, tt.doc)
		assert.Equal(t, tt.path, path, tt.doc)
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "...ing/long.go", truncateString("/a/very/long/path/string/long.go", 14))
	assert.Equal(t, "", truncateString("x", 0))
}
