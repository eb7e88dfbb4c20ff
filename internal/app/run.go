package app

import (
	"context"
	"fmt"

	"github.com/five82/pueuetop/internal/config"
	"github.com/five82/pueuetop/internal/logging"
	"github.com/five82/pueuetop/internal/prefs"
	"github.com/five82/pueuetop/internal/pueue"
	"github.com/five82/pueuetop/internal/tui"
	"github.com/five82/pueuetop/internal/ui"
)

// Options configure the dashboard.
type Options struct {
	ConfigPath string // empty searches the usual pueue locations
	Profile    string
	PrefsPath  string // empty uses ~/.config/pueuetop/prefs.toml
}

// Run boots the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(config.Options{Path: opts.ConfigPath, Profile: opts.Profile})
	if err != nil {
		return fmt.Errorf("load pueue config: %w", err)
	}

	secret, err := config.ReadSharedSecret(cfg.Shared.SecretPath())
	if err != nil {
		return err
	}

	client, err := pueue.NewClient(endpoint(cfg.Shared), secret)
	if err != nil {
		return fmt.Errorf("init pueue client: %w", err)
	}

	// An unreachable daemon is fatal before the terminal is taken over.
	initial, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("connect to pueue daemon: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	keys, err := userPrefs.KeyTable()
	if err != nil {
		return fmt.Errorf("load key bindings: %w", err)
	}

	closeLog, err := initLogging(userPrefs)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logging.Component("app")
	log.Info().
		Str("config", cfg.File).
		Str("profile", cfg.Profile).
		Bool("unix_socket", cfg.Shared.UseUnixSocket).
		Dur("poll_interval", userPrefs.Interval()).
		Msg("starting pueuetop")

	term := tui.New(tui.Config{
		TickRate:  userPrefs.TickRate,
		FrameRate: userPrefs.FrameRate,
		Mouse:     userPrefs.Mouse,
		Paste:     userPrefs.Paste,
	})

	theme := ui.GetTheme(userPrefs.Theme)
	app := New(Deps{
		Terminal:     term,
		Fetcher:      client,
		Keys:         keys,
		PollInterval: userPrefs.Interval(),
		Initial:      &initial,
		Components: []ui.Component{
			ui.NewHome(theme),
			ui.NewStatusBar(theme, pueue.Version),
		},
	})
	return app.Run(ctx)
}

func endpoint(s config.Shared) pueue.Endpoint {
	ep := pueue.Endpoint{Host: s.Host, Port: s.Port}
	if s.UseUnixSocket {
		ep.SocketPath = s.SocketPath()
	}
	return ep
}

// initLogging points the global logger at the log file. Logging stays
// disabled when the level is off or the file is turned off.
func initLogging(p prefs.Prefs) (func(), error) {
	path := p.LogPath()
	if path == "" || logging.Disabled(p.LogLevel) {
		logging.Init(logging.Config{Level: "off"})
		return func() {}, nil
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, err
	}
	cfg := logging.DefaultConfig()
	cfg.Level = p.LogLevel
	cfg.Output = f
	logging.Init(cfg)
	return func() { _ = f.Close() }, nil
}
