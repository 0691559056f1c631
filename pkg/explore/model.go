package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/praetorian-inc/linemark/pkg/tracker"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneDocuments focusedPane = iota
	paneAnnotations
)

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data        *exploreData
	documents   documentsPane
	annotations annotationsPane

	focus         focusedPane
	activeOverlay overlay
	helpOffset    int

	width  int
	height int
	err    error
}

// New creates a Model over the store at storePath.
func New(storePath string) (Model, error) {
	data, err := loadData(storePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

// NewFromTracker creates a Model over an existing tracker.
func NewFromTracker(t *tracker.Tracker) (Model, error) {
	data, err := newExploreData(t)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:      data,
		documents: newDocumentsPane(data.docs),
	}
	m.setFocus(paneDocuments)
	m.annotations.setDocument(m.documents.selected())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("linemark explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			return m.updateOverlay(msg)
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayHelp
			m.helpOffset = 0
			return m, nil
		case keyMatches(msg, defaultKeys.SwitchFocus):
			if m.focus == paneDocuments {
				m.setFocus(paneAnnotations)
			} else {
				m.setFocus(paneDocuments)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDocuments):
			m.setFocus(paneDocuments)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusAnnotations):
			m.setFocus(paneAnnotations)
			return m, nil
		case keyMatches(msg, defaultKeys.Remove):
			m.removeSelected()
			return m, nil
		case keyMatches(msg, defaultKeys.ClearAll):
			m.clearSelected()
			return m, nil
		case keyMatches(msg, defaultKeys.OpenSource):
			return m, m.openSource()
		}

		switch m.focus {
		case paneDocuments:
			prev := m.documents.selected()
			var cmd tea.Cmd
			m.documents, cmd = m.documents.Update(msg)
			if cur := m.documents.selected(); cur != prev {
				m.annotations.setDocument(cur)
			}
			return m, cmd
		case paneAnnotations:
			var cmd tea.Cmd
			m.annotations, cmd = m.annotations.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, defaultKeys.Quit),
		keyMatches(msg, defaultKeys.ForceQuit),
		keyMatches(msg, defaultKeys.ToggleHelp):
		m.activeOverlay = overlayNone
	case keyMatches(msg, defaultKeys.Down):
		m.helpOffset++
	case keyMatches(msg, defaultKeys.Up):
		m.helpOffset = max(0, m.helpOffset-1)
	}
	return m, nil
}

func (m *Model) setFocus(p focusedPane) {
	m.documents.focused = p == paneDocuments
	m.annotations.focused = p == paneAnnotations
	m.focus = p
}

// removeSelected deletes the highlighted annotation. From the documents
// pane it removes the first annotation of the selected document.
func (m *Model) removeSelected() {
	a, ok := m.annotations.selected()
	if !ok {
		return
	}
	m.err = m.data.removeAnnotation(m.annotations.doc, a)
	m.annotations.refresh()
}

func (m *Model) clearSelected() {
	row := m.documents.selected()
	if row == nil {
		return
	}
	m.err = m.data.clearDocument(row)
	m.annotations.refresh()
}

// openSource opens the selected document in $PAGER at the selected line.
func (m *Model) openSource() tea.Cmd {
	row := m.documents.selected()
	if row == nil {
		return nil
	}
	path, ok := localPath(row.Document)
	if !ok {
		m.err = fmt.Errorf("%s is not a local file", row.Document)
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		m.err = err
		return nil
	}

	line := 0
	if a, ok := m.annotations.selected(); ok {
		line = a.StartLine
	}
	return openInPager(path, line)
}

func openInPager(path string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, path)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.activeOverlay == overlayHelp {
		return m.renderHelpOverlay()
	}

	contentHeight := m.height - 2
	docsWidth := min(m.width*40/100, 70)

	m.documents.setSize(docsWidth, contentHeight)
	m.annotations.setSize(m.width-docsWidth, contentHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.documents.View(), m.annotations.View())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	total := 0
	for _, d := range m.data.docs {
		total += len(d.Annotations)
	}
	left := statusBarStyle.Render(fmt.Sprintf(" %d documents | %d annotations", len(m.data.docs), total))
	if m.err != nil {
		left = errorStyle.Render(" " + m.err.Error())
	}

	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("tab"), helpDescStyle.Render("focus"),
		helpKeyStyle.Render("x"), helpDescStyle.Render("remove"),
		helpKeyStyle.Render("s"), helpDescStyle.Render("sort"),
		helpKeyStyle.Render("o"), helpDescStyle.Render("source"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
	)

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelpOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	lines := strings.Split(helpText, "\n")
	offset := min(m.helpOffset, max(0, len(lines)-1))
	end := min(offset+overlayHeight-4, len(lines))

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(strings.Join(lines[offset:end], "\n"))
	view := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(" Help (q to close) "), box)

	hPad := (m.width - lipgloss.Width(view)) / 2
	vPad := (m.height - lipgloss.Height(view)) / 2
	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(view)
}

// Close releases the underlying store.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

const helpText = `Linemark Explore - Annotation Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  tab               Switch pane
  h / l             Focus documents / annotations

ACTIONS
  x or Delete       Remove the selected annotation
  X                 Clear every annotation of the document
  s                 Cycle document sort
  o                 Open the document in $PAGER

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
