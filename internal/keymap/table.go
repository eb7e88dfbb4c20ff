package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/pueuetop/internal/action"
)

// Mode is an interaction context. Each mode owns its own bindings.
type Mode int

const (
	ModeHome Mode = iota
)

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "Home"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "home":
		return ModeHome, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", name)
	}
}

// Bindings maps chords to actions for one mode.
type Bindings map[string]action.Action

// Bind registers an action for a chord, replacing any earlier binding.
func (b Bindings) Bind(chord Chord, act action.Action) {
	b[chord.lookupKey()] = act
}

// Lookup returns the action bound to exactly this chord.
func (b Bindings) Lookup(chord Chord) (action.Action, bool) {
	if len(chord) == 0 {
		return nil, false
	}
	act, ok := b[chord.lookupKey()]
	return act, ok
}

// Table holds the bindings of every mode. It is read-only once built.
type Table map[Mode]Bindings

// NewTable parses every chord in specs. The first malformed chord fails the
// whole table.
func NewTable(specs map[Mode]map[string]action.Action) (Table, error) {
	table := make(Table, len(specs))
	for mode, entries := range specs {
		// Sorted so the reported error does not depend on map order.
		texts := make([]string, 0, len(entries))
		for text := range entries {
			texts = append(texts, text)
		}
		sort.Strings(texts)

		bindings := make(Bindings, len(entries))
		for _, text := range texts {
			chord, err := Parse(text)
			if err != nil {
				return nil, fmt.Errorf("%s bindings: %w", mode, err)
			}
			bindings.Bind(chord, entries[text])
		}
		table[mode] = bindings
	}
	return table, nil
}

// DefaultSpecs returns the built-in binding text.
func DefaultSpecs() map[Mode]map[string]action.Action {
	return map[Mode]map[string]action.Action{
		ModeHome: {
			"<q>":      action.Quit{},
			"<ctrl-d>": action.Quit{},
			"<ctrl-c>": action.Quit{},
		},
	}
}

// DefaultTable returns the built-in bindings.
func DefaultTable() Table {
	table, err := NewTable(DefaultSpecs())
	if err != nil {
		panic(err)
	}
	return table
}

// Resolver turns key presses into bound actions, buffering keys so that
// multi-key chords can match. The buffer lives until Reset, which the
// orchestrator calls on every logic tick.
type Resolver struct {
	table  Table
	buffer Chord
}

// NewResolver returns a resolver over table.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve looks up key alone first. If that misses, key joins the buffer
// and the whole buffer is looked up.
func (r *Resolver) Resolve(mode Mode, key Key) (action.Action, bool) {
	bindings, ok := r.table[mode]
	if !ok {
		return nil, false
	}
	if act, ok := bindings.Lookup(Chord{key}); ok {
		return act, true
	}
	r.buffer = append(r.buffer, key)
	return bindings.Lookup(r.buffer)
}

// Reset clears the key buffer.
func (r *Resolver) Reset() {
	r.buffer = r.buffer[:0]
}

// Pending returns a copy of the buffered keys.
func (r *Resolver) Pending() Chord {
	out := make(Chord, len(r.buffer))
	copy(out, r.buffer)
	return out
}
