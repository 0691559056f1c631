package explore

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/praetorian-inc/linemark/pkg/types"
)

// previewContext is the number of unannotated lines shown around a range.
const previewContext = 2

// annotationsPane lists the annotations of one document and previews the
// selected range from disk when the document is a readable local file.
type annotationsPane struct {
	doc     *documentRow
	source  []string
	scroll  scroll
	width   int
	height  int
	focused bool
}

func (ap *annotationsPane) setDocument(row *documentRow) {
	ap.doc = row
	ap.scroll = scroll{}
	ap.source = nil
	if row == nil {
		return
	}
	if path, ok := localPath(row.Document); ok {
		if content, err := os.ReadFile(path); err == nil {
			ap.source = strings.Split(string(content), "\n")
		}
	}
}

// refresh re-reads the selected row after it was modified.
func (ap *annotationsPane) refresh() {
	if ap.doc == nil {
		return
	}
	ap.scroll.clamp(len(ap.doc.Annotations), ap.visibleRows())
}

func (ap annotationsPane) selected() (types.Annotation, bool) {
	if ap.doc == nil || ap.scroll.cursor < 0 || ap.scroll.cursor >= len(ap.doc.Annotations) {
		return types.Annotation{}, false
	}
	return ap.doc.Annotations[ap.scroll.cursor], true
}

func (ap annotationsPane) Update(msg tea.Msg) (annotationsPane, tea.Cmd) {
	if !ap.focused || ap.doc == nil {
		return ap, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		ap.scroll.move(msg, len(ap.doc.Annotations), ap.visibleRows())
	}
	return ap, nil
}

func (ap annotationsPane) View() string {
	if ap.width <= 0 || ap.height <= 0 {
		return ""
	}
	contentWidth := ap.width - 4

	var lines []string
	if ap.doc == nil {
		lines = append(lines, "  No document selected")
	} else if len(ap.doc.Annotations) == 0 {
		lines = append(lines, "  No annotations")
	} else {
		lines = append(lines,
			headerRowStyle.Render(fmt.Sprintf(" %6s %6s %6s  %-16s %s", "Start", "End", "Lines", "Kind", "Created")),
			strings.Repeat("─", contentWidth))

		visibleEnd := min(ap.scroll.offset+ap.visibleRows(), len(ap.doc.Annotations))
		for i := ap.scroll.offset; i < visibleEnd; i++ {
			a := ap.doc.Annotations[i]
			line := fmt.Sprintf(" %6d %6d %6d  %-16s %s",
				a.StartLine, a.EndLine, a.Lines(), a.Kind,
				a.CreatedAt.Local().Format(time.DateTime))
			if i == ap.scroll.cursor && ap.focused {
				line = selectedRowStyle.Width(contentWidth).Render(line)
			}
			lines = append(lines, padRight(line, contentWidth))
		}

		if a, ok := ap.selected(); ok && len(ap.source) > 0 {
			lines = append(lines, "")
			lines = append(lines, ap.preview(a, contentWidth)...)
		}
	}

	maxLines := max(0, ap.height-3)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	name := "Annotations"
	if ap.doc != nil {
		name = truncateString(ap.doc.Document, max(10, ap.width-20))
	}
	title := titleStyle.Render(fmt.Sprintf(" %s ", name))

	borderStyle := inactiveBorderStyle
	if ap.focused {
		borderStyle = activeBorderStyle
	}
	content := borderStyle.
		Width(ap.width - 2).
		Height(ap.height - 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

// preview renders the annotated lines of a with a little context.
func (ap annotationsPane) preview(a types.Annotation, width int) []string {
	first := max(1, a.StartLine-previewContext)
	last := min(len(ap.source), a.EndLine+previewContext)

	var out []string
	for n := first; n <= last; n++ {
		text := strings.TrimRight(ap.source[n-1], "\r")
		style := plainLineStyle
		if a.Contains(n) {
			style = annotatedLineStyle
		}
		gutter := gutterStyle.Render(fmt.Sprintf("%5d │ ", n))
		out = append(out, gutter+style.Render(truncateRight(text, max(0, width-8))))
	}
	return out
}

func (ap annotationsPane) visibleRows() int {
	return max(1, (ap.height-6)/2)
}

func (ap *annotationsPane) setSize(w, h int) {
	ap.width = w
	ap.height = h
}

func truncateRight(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
