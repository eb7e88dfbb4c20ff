package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/five82/pueuetop/internal/queue"
)

const (
	defaultTickRate  = 4.0
	defaultFrameRate = 60.0

	restoreTimeout = 2 * time.Second
)

// ErrSessionEnded is returned by Draw once the terminal session is gone.
var ErrSessionEnded = errors.New("terminal session ended")

// Config controls the terminal session.
type Config struct {
	TickRate  float64 // logic ticks per second
	FrameRate float64 // render ticks per second
	Mouse     bool
	Paste     bool

	Input  io.Reader // defaults to os.Stdin
	Output io.Writer // defaults to os.Stdout
}

// DefaultConfig returns the stock session settings.
func DefaultConfig() Config {
	return Config{TickRate: defaultTickRate, FrameRate: defaultFrameRate, Mouse: true}
}

func (c Config) normalized() Config {
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	if c.FrameRate <= 0 {
		c.FrameRate = defaultFrameRate
	}
	if c.Input == nil {
		c.Input = os.Stdin
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	return c
}

// Tui owns the terminal session. Input, ticks and resizes are merged into one
// ordered event stream read with Next; frames are pushed with Draw.
type Tui struct {
	cfg    Config
	events *queue.Queue[Event]

	tickPending   atomic.Bool
	renderPending atomic.Bool

	mu      sync.Mutex
	width   int
	height  int
	program *tea.Program
	done    chan struct{}
	runErr  error
	killed  bool

	stopTickers context.CancelFunc
	exitOnce    sync.Once
	restoreOnce sync.Once
}

// New prepares a session. Nothing touches the terminal until Enter.
func New(cfg Config) *Tui {
	return &Tui{
		cfg:    cfg.normalized(),
		events: queue.New[Event](),
	}
}

// Enter switches the terminal into the alternate screen and starts
// producing events.
func (t *Tui) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return errors.New("terminal session already started")
	}

	if f, ok := t.cfg.Output.(*os.File); ok {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("%s is not a terminal", f.Name())
		}
		w, h, err := term.GetSize(fd)
		if err != nil {
			return fmt.Errorf("read terminal size: %w", err)
		}
		t.width, t.height = w, h
	}

	opts := []tea.ProgramOption{
		tea.WithInput(t.cfg.Input),
		tea.WithOutput(t.cfg.Output),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithFPS(int(t.cfg.FrameRate)),
	}
	if t.cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if !t.cfg.Paste {
		opts = append(opts, tea.WithoutBracketedPaste())
	}

	t.program = tea.NewProgram(&bridge{tui: t}, opts...)
	t.done = make(chan struct{})
	t.events.Send(Init{})

	go t.run(t.program, t.done)

	ctx, cancel := context.WithCancel(context.Background())
	t.stopTickers = cancel
	go t.runTickers(ctx)
	return nil
}

func (t *Tui) run(p *tea.Program, done chan struct{}) {
	_, err := p.Run()

	t.mu.Lock()
	t.runErr = err
	t.mu.Unlock()
	close(done)

	// The session may end without Exit, for example on SIGTERM or an input
	// error. The consumer learns about it here.
	t.events.Send(Quit{})
}

func (t *Tui) runTickers(ctx context.Context) {
	tick := time.NewTicker(rateInterval(t.cfg.TickRate))
	defer tick.Stop()
	render := time.NewTicker(rateInterval(t.cfg.FrameRate))
	defer render.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.pushTick()
		case <-render.C:
			t.pushRender()
		}
	}
}

func rateInterval(perSecond float64) time.Duration {
	d := time.Duration(float64(time.Second) / perSecond)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// pushTick and pushRender keep at most one heartbeat of each kind waiting
// so a slow consumer sees fresh ticks instead of a backlog.
func (t *Tui) pushTick() {
	if t.tickPending.CompareAndSwap(false, true) {
		t.events.Send(Tick{})
	}
}

func (t *Tui) pushRender() {
	if t.renderPending.CompareAndSwap(false, true) {
		t.events.Send(Render{})
	}
}

func (t *Tui) push(ev Event) {
	if r, ok := ev.(Resize); ok {
		t.mu.Lock()
		t.width, t.height = r.Width, r.Height
		t.mu.Unlock()
	}
	t.events.Send(ev)
}

// Next blocks until the next event or until ctx is done.
func (t *Tui) Next(ctx context.Context) (Event, error) {
	ev, err := t.events.Recv(ctx)
	if err != nil {
		return nil, err
	}
	switch ev.(type) {
	case Tick:
		t.tickPending.Store(false)
	case Render:
		t.renderPending.Store(false)
	}
	return ev, nil
}

// Size reports the current drawing size.
func (t *Tui) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Resize sets the drawing size used by the next Draw.
func (t *Tui) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = width, height
}

// Draw builds a frame of the current size with fn and hands it to the
// terminal.
func (t *Tui) Draw(fn func(*Frame)) error {
	t.mu.Lock()
	p, done := t.program, t.done
	w, h := t.width, t.height
	t.mu.Unlock()

	if p == nil {
		return errors.New("terminal session not started")
	}
	select {
	case <-done:
		return ErrSessionEnded
	default:
	}

	frame := NewFrame(w, h)
	fn(frame)
	p.Send(frameMsg(frame.String()))
	return nil
}

// Exit leaves the alternate screen and restores the terminal. It is safe to
// call more than once and reports any I/O error the session ended with.
func (t *Tui) Exit() error {
	t.exitOnce.Do(func() {
		t.mu.Lock()
		p, done, stop := t.program, t.done, t.stopTickers
		t.mu.Unlock()

		if stop != nil {
			stop()
		}
		if p != nil {
			p.Quit()
			<-done
		}
	})
	return t.err()
}

// Restore tears the session down without waiting for a clean shutdown. It is
// meant for panic paths and never blocks for long.
func (t *Tui) Restore() {
	t.restoreOnce.Do(func() {
		t.mu.Lock()
		p, done, stop := t.program, t.done, t.stopTickers
		t.killed = true
		t.mu.Unlock()

		if stop != nil {
			stop()
		}
		if p == nil {
			return
		}
		p.Kill()
		select {
		case <-done:
		case <-time.After(restoreTimeout):
		}
	})
}

func (t *Tui) err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runErr == nil {
		return nil
	}
	if t.killed && errors.Is(t.runErr, tea.ErrProgramKilled) {
		return nil
	}
	return fmt.Errorf("terminal session: %w", t.runErr)
}

// frameMsg carries a finished frame into the program.
type frameMsg string

// bridge is the bubbletea model. It only forwards input into the event
// queue and shows the most recent frame; all state lives with the caller.
type bridge struct {
	tui   *Tui
	frame string
}

func (b *bridge) Init() tea.Cmd { return nil }

func (b *bridge) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		b.frame = string(msg)
	case tea.KeyMsg:
		if msg.Paste {
			b.tui.push(Paste{Text: string(msg.Runes)})
			break
		}
		if key, ok := FromKeyMsg(msg); ok {
			b.tui.push(KeyPress{Key: key, Msg: msg})
		}
	case tea.MouseMsg:
		b.tui.push(Mouse{Msg: msg})
	case tea.WindowSizeMsg:
		b.tui.push(Resize{Width: msg.Width, Height: msg.Height})
	case tea.FocusMsg:
		b.tui.push(FocusGained{})
	case tea.BlurMsg:
		b.tui.push(FocusLost{})
	}
	return b, nil
}

func (b *bridge) View() string { return b.frame }
