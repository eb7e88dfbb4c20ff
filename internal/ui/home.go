package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/pueue"
	"github.com/five82/pueuetop/internal/tui"
	"github.com/five82/pueuetop/internal/ui/tasktable"
)

// Home is the task list screen.
type Home struct {
	tx     action.Sender
	keys   keyMap
	styles tasktable.Styles

	tasks []pueue.Task
	table tasktable.State
}

// NewHome returns an empty task list painted with theme.
func NewHome(theme Theme) *Home {
	return &Home{
		keys:   defaultKeyMap(),
		styles: theme.Styles().Table(),
		table:  tasktable.NewState(),
	}
}

func (h *Home) RegisterActionHandler(tx action.Sender) error {
	h.tx = tx
	return nil
}

func (h *Home) Init(width, height int) error { return nil }

func (h *Home) HandleEvent(ev tui.Event) (action.Action, error) {
	press, ok := ev.(tui.KeyPress)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(press.Msg, h.keys.Down):
		h.next()
	case key.Matches(press.Msg, h.keys.Up):
		h.previous()
	}
	return nil, nil
}

func (h *Home) Update(act action.Action) (action.Action, error) {
	if a, ok := act.(action.UpdateStatus); ok {
		h.setTasks(a.State.Tasks)
	}
	return nil, nil
}

func (h *Home) Draw(f *tui.Frame, area tui.Rect) error {
	f.Render(area, tasktable.Render(h.tasks, area.Width, area.Height, &h.table, h.styles))
	return nil
}

// Tasks returns the cached task list.
func (h *Home) Tasks() []pueue.Task { return h.tasks }

// Selected returns the selected row, or -1 when the list is empty.
func (h *Home) Selected() int { return h.table.Selected }

// setTasks replaces the cached list and keeps the selection in range.
func (h *Home) setTasks(tasks []pueue.Task) {
	h.tasks = tasks
	switch {
	case len(tasks) == 0:
		h.table.Selected = -1
	case h.table.Selected < 0:
		h.table.Selected = 0
	case h.table.Selected >= len(tasks):
		h.table.Selected = len(tasks) - 1
	}
	h.syncScroll()
}

func (h *Home) next() {
	n := len(h.tasks)
	if n == 0 {
		return
	}
	h.table.Selected = (h.table.Selected + 1) % n
	h.syncScroll()
}

func (h *Home) previous() {
	n := len(h.tasks)
	if n == 0 {
		return
	}
	if h.table.Selected <= 0 {
		h.table.Selected = n - 1
	} else {
		h.table.Selected--
	}
	h.syncScroll()
}

func (h *Home) syncScroll() {
	h.table.Scroll.ContentLength = len(h.tasks)
	h.table.Scroll.Position = max(h.table.Selected, 0)
}
