package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/keymap"
	"github.com/five82/pueuetop/internal/logging"
	"github.com/five82/pueuetop/internal/pueue"
	"github.com/five82/pueuetop/internal/tui"
	"github.com/five82/pueuetop/internal/ui"
)

// Terminal is the session the orchestrator drives. *tui.Tui implements it.
type Terminal interface {
	Enter() error
	Exit() error
	Restore()
	Next(ctx context.Context) (tui.Event, error)
	Size() (width, height int)
	Resize(width, height int)
	Draw(fn func(*tui.Frame)) error
}

var _ Terminal = (*tui.Tui)(nil)

// Deps are the collaborators an App is built from.
type Deps struct {
	Terminal     Terminal
	Fetcher      pueue.StatusFetcher
	Keys         keymap.Table
	PollInterval time.Duration
	Components   []ui.Component

	// Initial is a snapshot fetched before the session started, if any.
	Initial *pueue.State
}

// App merges terminal events, timers and poll results into one action
// stream and drives the components with it. Everything except the poller
// runs on the goroutine that called Run.
type App struct {
	components []ui.Component
	quit       bool
	mode       keymap.Mode
	resolver   *keymap.Resolver
	actions    *action.Queue
	term       Terminal
	fetcher    pueue.StatusFetcher
	interval   time.Duration
	initial    *pueue.State
	log        zerolog.Logger

	// crashed carries a panic recovered on the poller goroutine to Run.
	crashed    chan any
	stopEvents context.CancelFunc
}

// New assembles an App. Components are drawn in the order given.
func New(d Deps) *App {
	keys := d.Keys
	if keys == nil {
		keys = keymap.DefaultTable()
	}
	return &App{
		components: d.Components,
		mode:       keymap.ModeHome,
		resolver:   keymap.NewResolver(keys),
		actions:    action.NewQueue(),
		term:       d.Terminal,
		fetcher:    d.Fetcher,
		interval:   d.PollInterval,
		initial:    d.Initial,
		log:        logging.Component("app"),
		crashed:    make(chan any, 1),
	}
}

// Run owns the terminal until a Quit action is processed or ctx is done.
// The terminal is restored on every exit path, including panics.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			a.term.Restore()
			panic(r)
		}
	}()

	if err := a.term.Enter(); err != nil {
		return fmt.Errorf("enter terminal: %w", err)
	}
	a.log.Info().Msg("terminal session started")

	runErr := a.loop(ctx)
	if runErr != nil {
		a.log.Error().Err(runErr).Msg("main loop failed")
	}
	exitErr := a.term.Exit()
	a.log.Info().Msg("terminal session ended")
	return errors.Join(runErr, exitErr)
}

func (a *App) loop(ctx context.Context) error {
	for _, c := range a.components {
		if err := c.RegisterActionHandler(a.actions); err != nil {
			return fmt.Errorf("register action handler: %w", err)
		}
	}
	w, h := a.term.Size()
	for _, c := range a.components {
		if err := c.Init(w, h); err != nil {
			return fmt.Errorf("init component: %w", err)
		}
	}

	if a.initial != nil {
		a.actions.Send(action.UpdateStatus{State: *a.initial})
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	a.stopEvents = stop
	StartPoller(ctx, a.fetcher, a.actions, a.interval, logging.Component("poller"), a.pollerCrashed)

	for {
		if err := a.handleEvent(ctx); err != nil {
			return err
		}
		if err := a.drain(); err != nil {
			return err
		}
		if a.quit {
			return nil
		}
	}
}

// pollerCrashed hands a poller panic to the Run goroutine, whose guard
// restores the terminal before the panic continues.
func (a *App) pollerCrashed(r any) {
	select {
	case a.crashed <- r:
	default:
	}
	a.stopEvents()
}

// handleEvent waits for one terminal event, translates it and offers it to
// every component.
func (a *App) handleEvent(ctx context.Context) error {
	ev, err := a.term.Next(ctx)
	if err != nil {
		select {
		case r := <-a.crashed:
			panic(r)
		default:
		}
		if ctx.Err() != nil {
			a.actions.Send(action.Quit{})
			return nil
		}
		return fmt.Errorf("read terminal event: %w", err)
	}

	switch ev := ev.(type) {
	case tui.Quit:
		a.actions.Send(action.Quit{})
	case tui.Tick:
		a.actions.Send(action.Tick{})
	case tui.Render:
		a.actions.Send(action.Render{})
	case tui.Resize:
		a.actions.Send(action.Resize{Width: ev.Width, Height: ev.Height})
	case tui.KeyPress:
		if act, ok := a.resolver.Resolve(a.mode, ev.Key); ok {
			a.log.Debug().Str("key", ev.Key.String()).Stringer("action", act).Msg("key bound")
			a.actions.Send(act)
		}
	}

	for _, c := range a.components {
		act, err := c.HandleEvent(ev)
		if err != nil {
			a.actions.Send(action.Error{Message: err.Error()})
			continue
		}
		if act != nil {
			a.actions.Send(act)
		}
	}
	return nil
}

// drain processes queued actions until the queue is empty, including any
// follow-up actions produced along the way.
func (a *App) drain() error {
	for {
		act, ok := a.actions.TryRecv()
		if !ok {
			return nil
		}
		if err := a.dispatch(act); err != nil {
			return err
		}
	}
}

func (a *App) dispatch(act action.Action) error {
	switch act := act.(type) {
	case action.Tick:
		a.resolver.Reset()
	case action.Render:
		if err := a.render(); err != nil {
			return err
		}
	case action.Resize:
		a.term.Resize(act.Width, act.Height)
		if err := a.render(); err != nil {
			return err
		}
	case action.Quit:
		a.log.Info().Msg("quit requested")
		a.quit = true
	default:
		a.log.Debug().Stringer("action", act).Msg("dispatch")
	}

	for _, c := range a.components {
		out, err := c.Update(act)
		if err != nil {
			a.actions.Send(action.Error{Message: err.Error()})
			continue
		}
		if out != nil {
			a.actions.Send(out)
		}
	}
	return nil
}

// render draws every component into its band. Component failures are
// reported as actions; a terminal failure ends the session.
func (a *App) render() error {
	err := a.term.Draw(func(f *tui.Frame) {
		areas := layout(a.components, f.Area())
		for i, c := range a.components {
			if err := c.Draw(f, areas[i]); err != nil {
				a.log.Error().Err(err).Msg("component draw failed")
				a.actions.Send(action.Error{Message: fmt.Sprintf("Failed to draw: %v", err)})
			}
		}
	})
	if err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// layout gives every ui.Sizer a fixed band at the bottom, stacked in
// registration order, and splits what is left evenly among the rest.
func layout(components []ui.Component, area tui.Rect) []tui.Rect {
	areas := make([]tui.Rect, len(components))

	rest := area
	for i := len(components) - 1; i >= 0; i-- {
		s, ok := components[i].(ui.Sizer)
		if !ok {
			continue
		}
		var band tui.Rect
		rest, band = rest.SplitBottom(s.Height(rest.Height))
		areas[i] = band
	}

	var flex []int
	for i, c := range components {
		if _, ok := c.(ui.Sizer); !ok {
			flex = append(flex, i)
		}
	}
	if len(flex) == 0 {
		return areas
	}

	share := rest.Height / len(flex)
	extra := rest.Height % len(flex)
	y := rest.Y
	for n, i := range flex {
		h := share
		if n < extra {
			h++
		}
		areas[i] = tui.Rect{X: rest.X, Y: y, Width: rest.Width, Height: h}
		y += h
	}
	return areas
}
