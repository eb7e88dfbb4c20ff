package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/five82/pueuetop/internal/keymap"
)

func TestFromKeyMsg(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want keymap.Key
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, keymap.RuneKey('q', 0)},
		{"upper rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Q'}}, keymap.RuneKey('Q', keymap.ModShift)},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, keymap.RuneKey('x', keymap.ModAlt)},
		{"ctrl-c", tea.KeyMsg{Type: tea.KeyCtrlC}, keymap.RuneKey('c', keymap.ModCtrl)},
		{"ctrl-d", tea.KeyMsg{Type: tea.KeyCtrlD}, keymap.RuneKey('d', keymap.ModCtrl)},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, keymap.CodeKey(keymap.CodeTab, 0)},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, keymap.CodeKey(keymap.CodeEnter, 0)},
		{"shift-tab", tea.KeyMsg{Type: tea.KeyShiftTab}, keymap.CodeKey(keymap.CodeBackTab, keymap.ModShift)},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, keymap.CodeKey(keymap.CodeDown, 0)},
		{"ctrl-up", tea.KeyMsg{Type: tea.KeyCtrlUp}, keymap.CodeKey(keymap.CodeUp, keymap.ModCtrl)},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, keymap.RuneKey(' ', 0)},
		{"f5", tea.KeyMsg{Type: tea.KeyF5}, keymap.CodeKey(keymap.CodeF5, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FromKeyMsg(tc.msg)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFromKeyMsgRejectsPasteAndMultiRune(t *testing.T) {
	_, ok := FromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello"), Paste: true})
	require.False(t, ok)
	_, ok = FromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	require.False(t, ok)
}

func TestFromKeyMsgMatchesParsedBindings(t *testing.T) {
	table := keymap.DefaultTable()
	key, ok := FromKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, ok)
	_, bound := table[keymap.ModeHome].Lookup(keymap.Chord{key})
	require.True(t, bound, "ctrl-c from the terminal must hit the <ctrl-c> binding")
}

func TestBridgeForwardsInput(t *testing.T) {
	tu := New(Config{})
	b := &bridge{tui: tu}

	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pasted"), Paste: true})
	b.Update(tea.FocusMsg{})
	b.Update(tea.BlurMsg{})
	b.Update(tea.MouseMsg{X: 3, Y: 4})

	ctx := context.Background()
	ev, err := tu.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, keymap.RuneKey('j', 0), ev.(KeyPress).Key)

	ev, err = tu.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, Resize{Width: 100, Height: 30}, ev)
	w, h := tu.Size()
	require.Equal(t, 100, w)
	require.Equal(t, 30, h)

	ev, err = tu.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, Paste{Text: "pasted"}, ev)

	ev, _ = tu.Next(ctx)
	require.Equal(t, FocusGained{}, ev)
	ev, _ = tu.Next(ctx)
	require.Equal(t, FocusLost{}, ev)
	ev, _ = tu.Next(ctx)
	require.IsType(t, Mouse{}, ev)
}

func TestBridgeShowsLatestFrame(t *testing.T) {
	b := &bridge{tui: New(Config{})}
	b.Update(frameMsg("one"))
	b.Update(frameMsg("two"))
	require.Equal(t, "two", b.View())
}

func TestHeartbeatsAreCoalesced(t *testing.T) {
	tu := New(Config{})
	for i := 0; i < 5; i++ {
		tu.pushTick()
		tu.pushRender()
	}
	tu.push(Resize{Width: 10, Height: 5})
	require.Equal(t, 3, tu.events.Len())

	ctx := context.Background()
	ev, _ := tu.Next(ctx)
	require.Equal(t, Tick{}, ev)
	ev, _ = tu.Next(ctx)
	require.Equal(t, Render{}, ev)

	// Once consumed, a new heartbeat may queue again.
	tu.pushTick()
	ev, _ = tu.Next(ctx)
	require.Equal(t, Resize{Width: 10, Height: 5}, ev)
	ev, _ = tu.Next(ctx)
	require.Equal(t, Tick{}, ev)
}

func TestNextHonorsContext(t *testing.T) {
	tu := New(Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := tu.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDrawBeforeEnterFails(t *testing.T) {
	tu := New(Config{})
	require.Error(t, tu.Draw(func(*Frame) {}))
	require.NoError(t, tu.Exit())
	tu.Restore()
}

func TestRateInterval(t *testing.T) {
	require.Equal(t, 250*time.Millisecond, rateInterval(4))
	require.Equal(t, time.Millisecond, rateInterval(1e9))
}

func TestRectSplitBottom(t *testing.T) {
	r := Rect{Width: 80, Height: 24}
	top, bottom := r.SplitBottom(1)
	require.Equal(t, Rect{Width: 80, Height: 23}, top)
	require.Equal(t, Rect{Y: 23, Width: 80, Height: 1}, bottom)

	top, bottom = Rect{Width: 10, Height: 1}.SplitBottom(3)
	require.True(t, top.Empty())
	require.Equal(t, 1, bottom.Height)
}

func TestFrameRenderClipsAndPads(t *testing.T) {
	f := NewFrame(6, 3)
	f.Render(Rect{Width: 6, Height: 2}, "abcdefgh\nxy\nignored")

	rows := strings.Split(f.String(), "\n")
	require.Len(t, rows, 3)
	require.Equal(t, "abcdef", rows[0])
	require.Equal(t, "xy    ", rows[1])
	require.Equal(t, "      ", rows[2])
}

func TestFrameRenderIntoSubArea(t *testing.T) {
	f := NewFrame(8, 2)
	f.Render(f.Area(), "........\n........")
	f.Render(Rect{X: 2, Y: 1, Width: 3, Height: 1}, "abcd")

	rows := strings.Split(f.String(), "\n")
	require.Equal(t, "........", rows[0])
	require.Equal(t, "..abc...", rows[1])
}

func TestFrameRenderKeepsStyledWidth(t *testing.T) {
	f := NewFrame(4, 1)
	f.Render(f.Area(), "\x1b[1mbold text\x1b[0m")
	require.Equal(t, 4, ansi.StringWidth(f.String()))
	require.Equal(t, "bold", ansi.Strip(f.String()))
}
