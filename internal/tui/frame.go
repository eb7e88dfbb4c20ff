package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Rect is a cell-addressed area of the screen.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the area has no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// SplitBottom carves a band of h rows off the bottom of r. The band shrinks
// when r is shorter than h.
func (r Rect) SplitBottom(h int) (top, bottom Rect) {
	if h < 0 {
		h = 0
	}
	if h > r.Height {
		h = r.Height
	}
	top = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height - h}
	bottom = Rect{X: r.X, Y: r.Y + r.Height - h, Width: r.Width, Height: h}
	return top, bottom
}

// Frame is one screen's worth of rows, built by components and then handed
// to the terminal as a single string.
type Frame struct {
	width  int
	height int
	rows   []string
}

// NewFrame returns a blank frame of the given size.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	rows := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range rows {
		rows[i] = blank
	}
	return &Frame{width: width, height: height, rows: rows}
}

// Area covers the whole frame.
func (f *Frame) Area() Rect {
	return Rect{Width: f.width, Height: f.height}
}

// Render places the lines of block into area, one line per row. Lines are
// clipped or padded to the area width, and lines past the area height are
// dropped. Rows of the area without a line are blanked.
func (f *Frame) Render(area Rect, block string) {
	area = f.clip(area)
	if area.Empty() {
		return
	}

	lines := strings.Split(block, "\n")
	for i := 0; i < area.Height; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		y := area.Y + i
		f.rows[y] = splice(f.rows[y], area.X, area.Width, fit(line, area.Width))
	}
}

// String joins the rows for the terminal.
func (f *Frame) String() string {
	return strings.Join(f.rows, "\n")
}

func (f *Frame) clip(area Rect) Rect {
	if area.X < 0 {
		area.Width += area.X
		area.X = 0
	}
	if area.Y < 0 {
		area.Height += area.Y
		area.Y = 0
	}
	if area.X+area.Width > f.width {
		area.Width = f.width - area.X
	}
	if area.Y+area.Height > f.height {
		area.Height = f.height - area.Y
	}
	return area
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func splice(row string, x, width int, cell string) string {
	if x == 0 && width >= ansi.StringWidth(row) {
		return cell
	}
	left := ansi.Truncate(row, x, "")
	right := ansi.TruncateLeft(row, x+width, "")
	return left + cell + right
}
