package explore

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}

// truncateString shortens s from the left so the end of a path stays visible.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}

// scroll tracks a cursor within a list that shows rows lines at a time.
type scroll struct {
	cursor int
	offset int
}

func (s *scroll) clamp(n, rows int) {
	if s.cursor >= n {
		s.cursor = max(0, n-1)
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	s.ensureVisible(rows)
}

func (s *scroll) ensureVisible(rows int) {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+rows {
		s.offset = s.cursor - rows + 1
	}
}

// move handles the shared navigation keys and reports whether msg was one.
func (s *scroll) move(msg tea.KeyMsg, n, rows int) bool {
	switch {
	case keyMatches(msg, defaultKeys.Up):
		s.cursor--
	case keyMatches(msg, defaultKeys.Down):
		s.cursor++
	case keyMatches(msg, defaultKeys.Home):
		s.cursor = 0
	case keyMatches(msg, defaultKeys.End):
		s.cursor = n - 1
	case keyMatches(msg, defaultKeys.PageDown):
		s.cursor += rows
	case keyMatches(msg, defaultKeys.PageUp):
		s.cursor -= rows
	default:
		return false
	}
	s.clamp(n, rows)
	return true
}
