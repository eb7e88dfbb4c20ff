package tasktable

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/five82/pueuetop/internal/pueue"
)

const ellipsis = "…"

// Styles are the lipgloss styles the table paints with.
type Styles struct {
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Neutral   lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Danger    lipgloss.Style
	Scrollbar lipgloss.Style
}

// StatusStyle picks the style of a status cell. Status text is always bold.
func StatusStyle(s pueue.TaskStatus, styles Styles) lipgloss.Style {
	var style lipgloss.Style
	switch s.Kind {
	case pueue.StatusStashed, pueue.StatusQueued:
		style = styles.Warning
	case pueue.StatusRunning:
		style = styles.Success
	case pueue.StatusDone:
		if s.Result.Kind == pueue.ResultSuccess {
			style = styles.Success
		} else {
			style = styles.Danger
		}
	default:
		style = styles.Neutral
	}
	return style.Bold(true)
}

// ScrollState drives the scrollbar thumb.
type ScrollState struct {
	ContentLength int
	Position      int
}

// State is the view state that survives between renders.
type State struct {
	// Selected is the index of the highlighted row, or -1 for none.
	Selected int
	// Offset is the index of the first visible row.
	Offset int
	Scroll ScrollState
}

// NewState returns a state with nothing selected.
func NewState() State {
	return State{Selected: -1}
}

// Render draws tasks into a block of at most width x height cells: a bold
// header, the visible rows and, when the rows do not fit, a scrollbar in a
// two-column gutter on the right.
func Render(tasks []pueue.Task, width, height int, st *State, styles Styles) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	st.Scroll.ContentLength = len(tasks)

	visible := height - 1
	tableWidth := width
	needScrollbar := len(tasks) > visible
	if needScrollbar {
		tableWidth = max(width-2, 0)
	}

	cols := Columns(tasks)
	widths := Widths(cols, tasks, tableWidth)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title()
	}
	lines := make([]string, 0, height)
	lines = append(lines, styles.Header.Render(clip(joinCells(header, widths), tableWidth)))

	st.keepSelectionVisible(len(tasks), visible)
	end := min(st.Offset+visible, len(tasks))
	for i := st.Offset; i < end; i++ {
		lines = append(lines, renderRow(tasks[i], cols, widths, tableWidth, i == st.Selected, styles))
	}

	if needScrollbar {
		bar := scrollbar(visible, st.Scroll)
		for row := range lines {
			gutter := "  "
			if row > 0 {
				gutter = " " + styles.Scrollbar.Render(bar[row-1])
			}
			lines[row] = pad(lines[row], tableWidth) + gutter
		}
	}
	return strings.Join(lines, "\n")
}

func renderRow(t pueue.Task, cols []Column, widths []int, tableWidth int, selected bool, styles Styles) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		text := CellText(c, t)
		if c == ColStatus {
			style := StatusStyle(t.Status, styles)
			if selected {
				style = style.Inherit(styles.Selected)
			}
			cells[i] = style.Render(pad(truncate(text, widths[i]), widths[i]))
			continue
		}
		cells[i] = text
	}

	if !selected {
		return clip(joinCells(cells, widths), tableWidth)
	}
	// The selection style fills the whole row, gaps included. Plain cells are
	// styled one by one so the pre-rendered status cell keeps its colors.
	for i, c := range cols {
		if c != ColStatus {
			cells[i] = styles.Selected.Render(pad(truncate(cells[i], widths[i]), widths[i]))
		}
	}
	gap := styles.Selected.Render(strings.Repeat(" ", columnSpacing))
	row := strings.Join(cells, gap)
	return clip(row, tableWidth)
}

// joinCells lays cells out at their widths, truncating long text.
func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnSpacing))
		}
		b.WriteString(pad(truncate(cell, widths[i]), widths[i]))
	}
	return b.String()
}

// truncate shortens plain text to width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if strings.Contains(s, "\x1b") {
		return ansi.Truncate(s, width, ellipsis)
	}
	return runewidth.Truncate(s, width, ellipsis)
}

func pad(s string, width int) string {
	if n := width - ansi.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// clip cuts a rendered row at the right edge of the table area.
func clip(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(TimeFormat)
}

// keepSelectionVisible moves Offset the least amount needed to show the
// selected row, and keeps it within the list.
func (st *State) keepSelectionVisible(n, visible int) {
	if n == 0 || visible <= 0 {
		st.Offset = 0
		return
	}
	if st.Selected >= 0 {
		if st.Selected < st.Offset {
			st.Offset = st.Selected
		}
		if st.Selected >= st.Offset+visible {
			st.Offset = st.Selected - visible + 1
		}
	}
	st.Offset = max(0, min(st.Offset, n-visible))
}
