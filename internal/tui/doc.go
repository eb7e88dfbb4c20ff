// Package tui is the terminal surface of pueuetop.
//
// A bubbletea program owns the real terminal: it enters the alternate screen,
// puts the tty in raw mode, decodes input and paints frames. Its model is a
// thin bridge that pushes every input message into an unbounded event queue
// and displays whatever frame it was last handed. Application state never
// lives inside the bubbletea model.
//
// # Event stream
//
//	bubbletea input ──┐
//	tick ticker ──────┼──> queue ──> Tui.Next(ctx)
//	render ticker ────┘
//
// Tick and Render are coalesced: at most one of each waits in the queue, so a
// slow consumer never replays a backlog of heartbeats. Key, Resize, Mouse,
// Paste and Quit events are never dropped.
//
// # Frames
//
// Draw builds a Frame of the current size, lets the caller render into
// rectangular areas of it, and sends the joined rows to the program. Because
// the bridge never blocks, sending from the consumer goroutine cannot
// deadlock against the program's update loop.
//
// # Shutdown
//
// Exit is the orderly path and reports any I/O error the session ended with.
// Restore kills the program and is meant for panic handlers. Both are
// idempotent.
package tui
