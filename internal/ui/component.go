package ui

import (
	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/tui"
)

// Component is a stateful screen region driven by the orchestrator. All
// methods are called from the orchestrator goroutine only.
type Component interface {
	// RegisterActionHandler hands the component the action queue so it can
	// emit actions outside of HandleEvent and Update.
	RegisterActionHandler(tx action.Sender) error
	// Init is called once with the terminal size before the first event.
	Init(width, height int) error
	// HandleEvent sees every raw terminal event.
	HandleEvent(ev tui.Event) (action.Action, error)
	// Update sees every action. A non-nil result is queued.
	Update(act action.Action) (action.Action, error)
	// Draw renders into area of the frame.
	Draw(f *tui.Frame, area tui.Rect) error
}

// Sizer is implemented by components that want a fixed number of rows at
// the bottom of the screen instead of a share of the remaining space.
type Sizer interface {
	Height(avail int) int
}
