package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var namedCodes = map[string]Code{
	"esc":       CodeEsc,
	"enter":     CodeEnter,
	"left":      CodeLeft,
	"right":     CodeRight,
	"up":        CodeUp,
	"down":      CodeDown,
	"home":      CodeHome,
	"end":       CodeEnd,
	"pageup":    CodePageUp,
	"pagedown":  CodePageDown,
	"tab":       CodeTab,
	"backtab":   CodeBackTab,
	"backspace": CodeBackspace,
	"delete":    CodeDelete,
	"insert":    CodeInsert,
	"f1":        CodeF1,
	"f2":        CodeF2,
	"f3":        CodeF3,
	"f4":        CodeF4,
	"f5":        CodeF5,
	"f6":        CodeF6,
	"f7":        CodeF7,
	"f8":        CodeF8,
	"f9":        CodeF9,
	"f10":       CodeF10,
	"f11":       CodeF11,
	"f12":       CodeF12,
}

// Parse reads a chord written as "<key>" or "<key><key>...", where each key
// is an optional run of "ctrl-", "alt-" and "shift-" prefixes followed by a
// key name or a single character. Parsing is case-insensitive.
func Parse(text string) (Chord, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, errors.New("empty key sequence")
	}

	var chord Chord
	rest := raw
	for rest != "" {
		if rest[0] != '<' {
			return nil, fmt.Errorf("key sequence %q: expected '<' at %q", raw, rest)
		}
		// A literal '>' is allowed as the key itself, as in "<>>" or "<shift->>".
		end := strings.IndexByte(rest[1:], '>')
		if end < 0 {
			return nil, fmt.Errorf("key sequence %q: missing '>'", raw)
		}
		end++
		if end+1 < len(rest) && rest[end+1] == '>' && (end == 1 || rest[end-1] == '-') {
			end++
		}
		segment := rest[1:end]
		if strings.ContainsRune(segment, '<') {
			return nil, fmt.Errorf("key sequence %q: unbalanced '<'", raw)
		}
		key, err := parseKey(segment)
		if err != nil {
			return nil, fmt.Errorf("key sequence %q: %w", raw, err)
		}
		chord = append(chord, key)
		rest = rest[end+1:]
	}
	return chord, nil
}

func parseKey(segment string) (Key, error) {
	if segment == "" {
		return Key{}, errors.New("empty key")
	}

	var mod Modifier
	rest := segment
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "ctrl-") && len(rest) > len("ctrl-"):
			mod |= ModCtrl
			rest = rest[len("ctrl-"):]
			continue
		case strings.HasPrefix(lower, "alt-") && len(rest) > len("alt-"):
			mod |= ModAlt
			rest = rest[len("alt-"):]
			continue
		case strings.HasPrefix(lower, "shift-") && len(rest) > len("shift-"):
			mod |= ModShift
			rest = rest[len("shift-"):]
			continue
		}
		break
	}

	name := strings.ToLower(rest)
	if code, ok := namedCodes[name]; ok {
		if code == CodeBackTab {
			mod |= ModShift
		}
		return CodeKey(code, mod), nil
	}
	switch name {
	case "space":
		return RuneKey(' ', mod), nil
	case "hyphen", "minus":
		return RuneKey('-', mod), nil
	}

	r, size := utf8.DecodeRuneInString(rest)
	if size != len(rest) || r == utf8.RuneError || !unicode.IsPrint(r) {
		return Key{}, fmt.Errorf("unknown key %q", rest)
	}
	if mod&ModShift != 0 {
		r = unicode.ToUpper(r)
	} else {
		r = unicode.ToLower(r)
	}
	return RuneKey(r, mod), nil
}
