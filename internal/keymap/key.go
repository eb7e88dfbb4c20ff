// Package keymap resolves normalized key presses to actions, including
// multi-key chords accumulated between logic ticks.
package keymap

import (
	"fmt"
	"strings"
)

// Code identifies a physical key. Printable characters use CodeRune.
type Code int

const (
	CodeRune Code = iota
	CodeEsc
	CodeEnter
	CodeLeft
	CodeRight
	CodeUp
	CodeDown
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeTab
	CodeBackTab
	CodeBackspace
	CodeDelete
	CodeInsert
	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Key is one normalized key press.
type Key struct {
	Code Code
	Rune rune
	Mod  Modifier
}

// RuneKey returns the key for a printable character.
func RuneKey(r rune, mod Modifier) Key {
	return Key{Code: CodeRune, Rune: r, Mod: mod}
}

// CodeKey returns the key for a named, non-character key.
func CodeKey(code Code, mod Modifier) Key {
	return Key{Code: code, Mod: mod}
}

var codeNames = map[Code]string{
	CodeEsc:       "esc",
	CodeEnter:     "enter",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pageup",
	CodePageDown:  "pagedown",
	CodeTab:       "tab",
	CodeBackTab:   "backtab",
	CodeBackspace: "backspace",
	CodeDelete:    "delete",
	CodeInsert:    "insert",
}

func init() {
	for i := 0; i < 12; i++ {
		codeNames[CodeF1+Code(i)] = fmt.Sprintf("f%d", i+1)
	}
}

// String renders the key in the binding grammar without brackets, for
// example "ctrl-d", "shift-backtab" or "space".
func (k Key) String() string {
	var b strings.Builder
	if k.Mod&ModCtrl != 0 {
		b.WriteString("ctrl-")
	}
	if k.Mod&ModAlt != 0 {
		b.WriteString("alt-")
	}
	if k.Mod&ModShift != 0 {
		b.WriteString("shift-")
	}
	b.WriteString(k.name())
	return b.String()
}

func (k Key) name() string {
	if k.Code != CodeRune {
		if name, ok := codeNames[k.Code]; ok {
			return name
		}
		return "unknown"
	}
	switch k.Rune {
	case ' ':
		return "space"
	case '-':
		return "minus"
	default:
		return string(k.Rune)
	}
}

// Chord is an ordered sequence of key presses.
type Chord []Key

// Equal reports element-wise equality.
func (c Chord) Equal(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the chord as "<k1><k2>...".
func (c Chord) String() string {
	var b strings.Builder
	for _, k := range c {
		b.WriteByte('<')
		b.WriteString(k.String())
		b.WriteByte('>')
	}
	return b.String()
}

// lookupKey is the map key for a chord. Key names never contain spaces, so
// joining on a space keeps distinct chords distinct.
func (c Chord) lookupKey() string {
	parts := make([]string, len(c))
	for i, k := range c {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}
