package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/state"
	"github.com/five82/pueuetop/internal/tui"
)

const (
	appName      = "pueuetop"
	minStatusGap = 2
)

// StatusBar is the one-line footer: poll health on the left, key help and
// the program version on the right.
type StatusBar struct {
	tx      action.Sender
	keys    keyMap
	help    help.Model
	styles  Styles
	version string

	store state.Store
}

// NewStatusBar returns a footer painted with theme.
func NewStatusBar(theme Theme, version string) *StatusBar {
	styles := theme.Styles()
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.MutedText
	return &StatusBar{
		keys:    defaultKeyMap(),
		help:    h,
		styles:  styles,
		version: version,
	}
}

func (s *StatusBar) RegisterActionHandler(tx action.Sender) error {
	s.tx = tx
	return nil
}

func (s *StatusBar) Init(width, height int) error {
	s.help.Width = width
	return nil
}

func (s *StatusBar) HandleEvent(ev tui.Event) (action.Action, error) {
	if r, ok := ev.(tui.Resize); ok {
		s.help.Width = r.Width
	}
	return nil, nil
}

func (s *StatusBar) Update(act action.Action) (action.Action, error) {
	switch a := act.(type) {
	case action.UpdateStatus:
		st := a.State
		s.store.Update(&st, nil)
	case action.Error:
		s.store.Update(nil, errors.New(a.Message))
	}
	return nil, nil
}

// Height implements Sizer.
func (s *StatusBar) Height(avail int) int {
	return min(1, max(avail, 0))
}

func (s *StatusBar) Draw(f *tui.Frame, area tui.Rect) error {
	f.Render(area, s.render(area.Width))
	return nil
}

// Message returns the plain text of the left side.
func (s *StatusBar) Message() string {
	snap := s.store.Snapshot()
	var msg string
	switch {
	case snap.LastError != nil:
		msg = snap.LastError.Error()
	case snap.HasState:
		msg = fmt.Sprintf("%d tasks · updated %s", len(snap.State.Tasks), snap.LastUpdated.Format("15:04:05"))
	default:
		msg = "connecting..."
	}
	if snap.IsOffline() {
		msg = "offline: " + msg
	}
	return msg
}

func (s *StatusBar) render(width int) string {
	if width <= 0 {
		return ""
	}
	right := s.help.View(s.keys) + "  " + s.styles.AppName.Render(appName) + s.styles.MutedText.Render(" v"+s.version)
	rightWidth := ansi.StringWidth(right)

	avail := width - rightWidth - minStatusGap
	left := s.Message()
	if avail <= 3 {
		left = "..."
		if avail < 3 {
			return ansi.Truncate(right, width, "")
		}
	} else {
		left = truncate(left, avail)
	}

	style := s.styles.Text
	if s.store.Snapshot().LastError != nil {
		style = s.styles.DangerText
	}
	gap := strings.Repeat(" ", width-rightWidth-ansi.StringWidth(left))
	return style.Render(left) + gap + right
}
