package explore

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sortField int

const (
	sortByDocument sortField = iota
	sortByAnnotations
	sortByLines
	sortByUpdated
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Document", "Annotations", "Lines", "Updated",
}

// documentsPane is the left-hand document list.
type documentsPane struct {
	rows    []*documentRow
	scroll  scroll
	width   int
	height  int
	focused bool
	sortBy  sortField
}

func newDocumentsPane(rows []*documentRow) documentsPane {
	dp := documentsPane{rows: rows}
	dp.sort()
	return dp
}

func (dp documentsPane) selected() *documentRow {
	if dp.scroll.cursor < 0 || dp.scroll.cursor >= len(dp.rows) {
		return nil
	}
	return dp.rows[dp.scroll.cursor]
}

func (dp documentsPane) Update(msg tea.Msg) (documentsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if dp.scroll.move(msg, len(dp.rows), dp.visibleRows()) {
			return dp, nil
		}
		if keyMatches(msg, defaultKeys.SortNext) {
			dp.sortBy = (dp.sortBy + 1) % sortFieldCount
			dp.sort()
		}
	}
	return dp, nil
}

// sort orders rows by the active field, keeping the selected row selected.
func (dp *documentsPane) sort() {
	current := dp.selected()

	var less func(a, b *documentRow) bool
	switch dp.sortBy {
	case sortByDocument:
		less = func(a, b *documentRow) bool { return a.Document < b.Document }
	case sortByAnnotations:
		less = func(a, b *documentRow) bool { return len(a.Annotations) > len(b.Annotations) }
	case sortByLines:
		less = func(a, b *documentRow) bool { return a.Lines > b.Lines }
	case sortByUpdated:
		less = func(a, b *documentRow) bool { return a.Updated > b.Updated }
	}
	sort.SliceStable(dp.rows, func(i, j int) bool { return less(dp.rows[i], dp.rows[j]) })

	for i, r := range dp.rows {
		if r == current {
			dp.scroll.cursor = i
		}
	}
	dp.scroll.clamp(len(dp.rows), dp.visibleRows())
}

func (dp documentsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4
	colCount := 6
	colLines := 6
	colDoc := max(10, contentWidth-colCount-colLines-3)

	var b strings.Builder
	header := fmt.Sprintf(" %-*s %*s %*s", colDoc, "Document", colCount, "Anns", colLines, "Lines")
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	visibleEnd := min(dp.scroll.offset+dp.visibleRows(), len(dp.rows))
	for i := dp.scroll.offset; i < visibleEnd; i++ {
		row := dp.rows[i]
		line := fmt.Sprintf(" %-*s %*d %*d",
			colDoc, truncateString(row.Document, colDoc),
			colCount, len(row.Annotations),
			colLines, row.Lines,
		)
		if i == dp.scroll.cursor && dp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(line)
		}
		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(fmt.Sprintf(" Documents (%d) [sort: %s] ", len(dp.rows), sortFieldNames[dp.sortBy]))

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}
	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (dp documentsPane) visibleRows() int {
	return max(1, dp.height-6) // title + border + header + separator
}

func (dp *documentsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
