// Package prefs handles pueuetop user preferences.
// Preferences are stored in ~/.config/pueuetop/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/keymap"
)

// Prefs holds user preferences for the dashboard.
type Prefs struct {
	Theme        string  `toml:"theme"`
	TickRate     float64 `toml:"tick_rate"`
	FrameRate    float64 `toml:"frame_rate"`
	PollInterval string  `toml:"poll_interval"`
	Mouse        bool    `toml:"mouse"`
	Paste        bool    `toml:"paste"`
	LogLevel     string  `toml:"log_level"`
	LogFile      string  `toml:"log_file"`

	// Keybindings maps a mode name to chord text and action name, for
	// example [keybindings.Home] "<g><q>" = "Quit".
	Keybindings map[string]map[string]string `toml:"keybindings,omitempty"`
}

// EnvPath overrides the preferences file location.
const EnvPath = "PUEUETOP_PREFS"

const (
	defaultPrefsPath    = "~/.config/pueuetop/prefs.toml"
	defaultTheme        = "Terminal"
	defaultTickRate     = 4.0
	defaultFrameRate    = 60.0
	defaultPollInterval = time.Second
	defaultLogLevel     = "info"
	defaultLogFile      = "~/.local/state/pueuetop/pueuetop.log"

	maxRate = 1000.0
)

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{
		Theme:        defaultTheme,
		TickRate:     defaultTickRate,
		FrameRate:    defaultFrameRate,
		PollInterval: defaultPollInterval.String(),
		Mouse:        true,
		LogLevel:     defaultLogLevel,
		LogFile:      defaultLogFile,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	prefs := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	prefs.normalize()
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func (p *Prefs) normalize() {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.TickRate <= 0 || p.TickRate > maxRate {
		p.TickRate = defaultTickRate
	}
	if p.FrameRate <= 0 || p.FrameRate > maxRate {
		p.FrameRate = defaultFrameRate
	}
	if d, err := time.ParseDuration(strings.TrimSpace(p.PollInterval)); err != nil || d <= 0 {
		p.PollInterval = defaultPollInterval.String()
	}
	if strings.TrimSpace(p.LogLevel) == "" {
		p.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(p.LogFile) == "" {
		p.LogFile = defaultLogFile
	}
}

// Interval returns the status poll interval.
func (p Prefs) Interval() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(p.PollInterval))
	if err != nil || d <= 0 {
		return defaultPollInterval
	}
	return d
}

// LogPath returns the expanded log file path, or "" when file logging is
// turned off.
func (p Prefs) LogPath() string {
	file := strings.TrimSpace(p.LogFile)
	if strings.EqualFold(file, "off") {
		return ""
	}
	if file == "" {
		file = defaultLogFile
	}
	expanded, err := expandPath(file)
	if err != nil {
		return ""
	}
	return expanded
}

// KeyTable builds the binding table: the built-in bindings with the user's
// bindings layered on top. Any malformed mode, chord or action name fails.
func (p Prefs) KeyTable() (keymap.Table, error) {
	table, err := keymap.NewTable(keymap.DefaultSpecs())
	if err != nil {
		return nil, err
	}

	modes := make([]string, 0, len(p.Keybindings))
	for name := range p.Keybindings {
		modes = append(modes, name)
	}
	sort.Strings(modes)

	for _, name := range modes {
		mode, err := keymap.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("keybindings: %w", err)
		}
		bindings := table[mode]
		if bindings == nil {
			bindings = make(keymap.Bindings)
			table[mode] = bindings
		}

		entries := p.Keybindings[name]
		chords := make([]string, 0, len(entries))
		for text := range entries {
			chords = append(chords, text)
		}
		sort.Strings(chords)

		for _, text := range chords {
			chord, err := keymap.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("keybindings.%s: %w", mode, err)
			}
			act, err := action.Parse(entries[text])
			if err != nil {
				return nil, fmt.Errorf("keybindings.%s %s: %w", mode, text, err)
			}
			bindings.Bind(chord, act)
		}
	}
	return table, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}
	if env := strings.TrimSpace(os.Getenv(EnvPath)); env != "" {
		return expandPath(env)
	}
	return expandPath(defaultPrefsPath)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
