package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pueuetop/internal/keymap"
)

// Event is a closed union of everything the terminal surface reports.
type Event interface {
	isEvent()
}

// Init is emitted once when the session starts.
type Init struct{}

// Quit signals that the terminal session ended.
type Quit struct{}

// Tick is the logic heartbeat.
type Tick struct{}

// Render is the frame heartbeat.
type Render struct{}

// FocusGained and FocusLost mirror terminal focus reports.
type FocusGained struct{}

type FocusLost struct{}

// Paste carries bracketed-paste text.
type Paste struct {
	Text string
}

// KeyPress carries a normalized key and the raw bubbletea message.
type KeyPress struct {
	Key keymap.Key
	Msg tea.KeyMsg
}

// Mouse carries a raw mouse message.
type Mouse struct {
	Msg tea.MouseMsg
}

// Resize reports the new terminal size in cells.
type Resize struct {
	Width  int
	Height int
}

func (Init) isEvent()        {}
func (Quit) isEvent()        {}
func (Tick) isEvent()        {}
func (Render) isEvent()      {}
func (FocusGained) isEvent() {}
func (FocusLost) isEvent()   {}
func (Paste) isEvent()       {}
func (KeyPress) isEvent()    {}
func (Mouse) isEvent()       {}
func (Resize) isEvent()      {}

func (e KeyPress) String() string { return fmt.Sprintf("Key(%s)", e.Key) }
func (e Resize) String() string   { return fmt.Sprintf("Resize(%d, %d)", e.Width, e.Height) }
