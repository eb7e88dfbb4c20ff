// Package action defines the commands that flow through the dashboard's
// action queue, from input translation, timers and the status poller to the
// orchestrator and view components.
package action

import (
	"fmt"
	"strings"

	"github.com/five82/pueuetop/internal/pueue"
	"github.com/five82/pueuetop/internal/queue"
)

// Action is a closed union. Only the types in this package implement it.
type Action interface {
	fmt.Stringer
	isAction()
}

// Tick is the fixed-rate logic heartbeat.
type Tick struct{}

// Render requests a frame.
type Render struct{}

// Resize reports a new terminal size.
type Resize struct {
	Width  int
	Height int
}

// Quit ends the main loop.
type Quit struct{}

// Error carries a human-readable failure description for display.
type Error struct {
	Message string
}

// UpdateStatus carries a fresh daemon snapshot. It replaces any previous one.
type UpdateStatus struct {
	State pueue.State
}

func (Tick) isAction()         {}
func (Render) isAction()       {}
func (Resize) isAction()       {}
func (Quit) isAction()         {}
func (Error) isAction()        {}
func (UpdateStatus) isAction() {}

func (Tick) String() string   { return "Tick" }
func (Render) String() string { return "Render" }
func (Quit) String() string   { return "Quit" }

func (a Resize) String() string {
	return fmt.Sprintf("Resize(%d, %d)", a.Width, a.Height)
}

func (a Error) String() string {
	return fmt.Sprintf("Error(%q)", a.Message)
}

func (a UpdateStatus) String() string {
	return fmt.Sprintf("UpdateStatus(%d tasks)", len(a.State.Tasks))
}

// Sender is held by every producer of actions.
type Sender interface {
	Send(Action)
}

// Queue is the unbounded action bus.
type Queue = queue.Queue[Action]

// NewQueue returns an empty action queue.
func NewQueue() *Queue {
	return queue.New[Action]()
}

// Parse resolves the name of a parameterless action, as used in key binding
// configuration.
func Parse(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tick":
		return Tick{}, nil
	case "render":
		return Render{}, nil
	case "quit":
		return Quit{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}
