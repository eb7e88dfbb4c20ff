// Package app is the composition root and main loop of pueuetop.
//
// # Overview
//
// Run loads the daemon configuration and shared secret, builds the pueue
// client, reads the user's preferences, opens the log file and then hands a
// terminal session and the view components to an App.
//
// # Main Loop
//
// App.Run alternates between two phases until a Quit action is seen:
//
//  1. Event phase: block for one terminal event, translate it into an action
//     (key presses go through the keymap resolver) and offer the raw event to
//     every component.
//  2. Drain phase: pop queued actions until none are left. Tick clears the
//     pending key buffer, Resize and Render draw a frame, Quit ends the loop.
//     Every action is then passed to every component, and any follow-up
//     actions are processed in the same pass.
//
// # Data Flow
//
//	┌──────────────┐   events   ┌──────────────┐
//	│  tui.Tui     │───────────▶│   App.Run    │
//	└──────────────┘            └──────┬───────┘
//	                                   │ actions
//	┌──────────────┐  UpdateStatus ┌───▼──────────┐
//	│  poller      │──────────────▶│ action queue │
//	└──────────────┘  / Error      └───┬──────────┘
//	                                   │ dispatch
//	                            ┌──────▼───────┐
//	                            │  components  │ Home, StatusBar
//	                            └──────────────┘
//
// # Poller
//
// The poller runs on its own goroutine and never touches component state. It
// sends UpdateStatus on success or Error("Failed to fetch status: ...") on
// failure, then sleeps for the poll interval regardless of the outcome.
//
// # Error Handling
//
// Component errors become Error actions shown in the status bar. Failing to
// write to the terminal ends the session; Run restores the terminal and
// returns the error. A panic restores the terminal before propagating.
package app
