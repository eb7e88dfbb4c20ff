package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pueuetop/internal/keymap"
)

var namedKeys = map[tea.KeyType]keymap.Key{
	tea.KeyEsc:       keymap.CodeKey(keymap.CodeEsc, 0),
	tea.KeyEnter:     keymap.CodeKey(keymap.CodeEnter, 0),
	tea.KeyTab:       keymap.CodeKey(keymap.CodeTab, 0),
	tea.KeyShiftTab:  keymap.CodeKey(keymap.CodeBackTab, keymap.ModShift),
	tea.KeyBackspace: keymap.CodeKey(keymap.CodeBackspace, 0),
	tea.KeyDelete:    keymap.CodeKey(keymap.CodeDelete, 0),
	tea.KeyInsert:    keymap.CodeKey(keymap.CodeInsert, 0),
	tea.KeySpace:     keymap.RuneKey(' ', 0),

	tea.KeyUp:    keymap.CodeKey(keymap.CodeUp, 0),
	tea.KeyDown:  keymap.CodeKey(keymap.CodeDown, 0),
	tea.KeyLeft:  keymap.CodeKey(keymap.CodeLeft, 0),
	tea.KeyRight: keymap.CodeKey(keymap.CodeRight, 0),

	tea.KeyShiftUp:    keymap.CodeKey(keymap.CodeUp, keymap.ModShift),
	tea.KeyShiftDown:  keymap.CodeKey(keymap.CodeDown, keymap.ModShift),
	tea.KeyShiftLeft:  keymap.CodeKey(keymap.CodeLeft, keymap.ModShift),
	tea.KeyShiftRight: keymap.CodeKey(keymap.CodeRight, keymap.ModShift),

	tea.KeyCtrlUp:    keymap.CodeKey(keymap.CodeUp, keymap.ModCtrl),
	tea.KeyCtrlDown:  keymap.CodeKey(keymap.CodeDown, keymap.ModCtrl),
	tea.KeyCtrlLeft:  keymap.CodeKey(keymap.CodeLeft, keymap.ModCtrl),
	tea.KeyCtrlRight: keymap.CodeKey(keymap.CodeRight, keymap.ModCtrl),

	tea.KeyCtrlShiftUp:    keymap.CodeKey(keymap.CodeUp, keymap.ModCtrl|keymap.ModShift),
	tea.KeyCtrlShiftDown:  keymap.CodeKey(keymap.CodeDown, keymap.ModCtrl|keymap.ModShift),
	tea.KeyCtrlShiftLeft:  keymap.CodeKey(keymap.CodeLeft, keymap.ModCtrl|keymap.ModShift),
	tea.KeyCtrlShiftRight: keymap.CodeKey(keymap.CodeRight, keymap.ModCtrl|keymap.ModShift),

	tea.KeyHome:      keymap.CodeKey(keymap.CodeHome, 0),
	tea.KeyEnd:       keymap.CodeKey(keymap.CodeEnd, 0),
	tea.KeyShiftHome: keymap.CodeKey(keymap.CodeHome, keymap.ModShift),
	tea.KeyShiftEnd:  keymap.CodeKey(keymap.CodeEnd, keymap.ModShift),
	tea.KeyCtrlHome:  keymap.CodeKey(keymap.CodeHome, keymap.ModCtrl),
	tea.KeyCtrlEnd:   keymap.CodeKey(keymap.CodeEnd, keymap.ModCtrl),

	tea.KeyPgUp:       keymap.CodeKey(keymap.CodePageUp, 0),
	tea.KeyPgDown:     keymap.CodeKey(keymap.CodePageDown, 0),
	tea.KeyCtrlPgUp:   keymap.CodeKey(keymap.CodePageUp, keymap.ModCtrl),
	tea.KeyCtrlPgDown: keymap.CodeKey(keymap.CodePageDown, keymap.ModCtrl),

	tea.KeyF1:  keymap.CodeKey(keymap.CodeF1, 0),
	tea.KeyF2:  keymap.CodeKey(keymap.CodeF2, 0),
	tea.KeyF3:  keymap.CodeKey(keymap.CodeF3, 0),
	tea.KeyF4:  keymap.CodeKey(keymap.CodeF4, 0),
	tea.KeyF5:  keymap.CodeKey(keymap.CodeF5, 0),
	tea.KeyF6:  keymap.CodeKey(keymap.CodeF6, 0),
	tea.KeyF7:  keymap.CodeKey(keymap.CodeF7, 0),
	tea.KeyF8:  keymap.CodeKey(keymap.CodeF8, 0),
	tea.KeyF9:  keymap.CodeKey(keymap.CodeF9, 0),
	tea.KeyF10: keymap.CodeKey(keymap.CodeF10, 0),
	tea.KeyF11: keymap.CodeKey(keymap.CodeF11, 0),
	tea.KeyF12: keymap.CodeKey(keymap.CodeF12, 0),
}

// FromKeyMsg normalizes a bubbletea key message. ok is false for messages
// that carry no single key, such as pastes or multi-rune input.
func FromKeyMsg(msg tea.KeyMsg) (keymap.Key, bool) {
	if msg.Paste {
		return keymap.Key{}, false
	}

	var key keymap.Key
	switch {
	case msg.Type == tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return keymap.Key{}, false
		}
		r := msg.Runes[0]
		var mod keymap.Modifier
		if unicode.IsUpper(r) {
			mod |= keymap.ModShift
		}
		key = keymap.RuneKey(r, mod)
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ && msg.Type != tea.KeyTab && msg.Type != tea.KeyEnter:
		key = keymap.RuneKey(rune('a'+int(msg.Type-tea.KeyCtrlA)), keymap.ModCtrl)
	default:
		named, ok := namedKeys[msg.Type]
		if !ok {
			return keymap.Key{}, false
		}
		key = named
	}

	if msg.Alt {
		key.Mod |= keymap.ModAlt
	}
	return key, true
}
