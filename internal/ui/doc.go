// Package ui provides the view components of the pueuetop dashboard.
//
// # Components
//
// Every screen region implements Component. The orchestrator registers the
// action queue with each component, forwards every raw terminal event to
// HandleEvent, every action to Update, and calls Draw on each render with
// the area the layout assigned.
//
//   - Home: the task table with keyboard selection (↑/k, ↓/j, wrapping)
//   - StatusBar: one-line footer with poll health, key help and version
//
// Components that implement Sizer get a fixed band at the bottom of the
// screen. The rest share what is left.
//
// # Rendering
//
// Home delegates to the tasktable package, which owns column selection,
// width computation, status colors and the scrollbar. Colors come from a
// named Theme (Terminal, Dracula or Slate) mapped onto lipgloss styles.
//
// # Design Principles
//
//   - Read-only interface: no mutations to queue or daemon state
//   - Single writer: components are only touched from the orchestrator
//     goroutine, so they hold no locks
//   - Snapshots replace: each UpdateStatus swaps the cached task list
//     wholesale and re-clamps the selection
package ui
