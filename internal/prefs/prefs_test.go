package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/keymap"
)

func writePrefs(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPath, "")

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.TickRate != 4 || p.FrameRate != 60 {
		t.Fatalf("rates = %v/%v, want 4/60", p.TickRate, p.FrameRate)
	}
	if p.Interval() != time.Second {
		t.Fatalf("Interval() = %v, want 1s", p.Interval())
	}
	if !p.Mouse || p.Paste {
		t.Fatalf("Mouse = %v, Paste = %v; want true, false", p.Mouse, p.Paste)
	}
	if got := p.LogPath(); got != filepath.Join(home, ".local", "state", "pueuetop", "pueuetop.log") {
		t.Fatalf("LogPath() = %q", got)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPath, "")

	prefsDir := filepath.Join(home, ".config", "pueuetop")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Slate\"\ntick_rate = 10.0\npoll_interval = \"250ms\"\nmouse = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.TickRate != 10 {
		t.Fatalf("TickRate = %v, want 10", p.TickRate)
	}
	if p.FrameRate != defaultFrameRate {
		t.Fatalf("FrameRate = %v, want default kept", p.FrameRate)
	}
	if p.Interval() != 250*time.Millisecond {
		t.Fatalf("Interval() = %v, want 250ms", p.Interval())
	}
	if p.Mouse {
		t.Fatalf("Mouse = true, want false")
	}
}

func TestLoad_EnvPath(t *testing.T) {
	path := writePrefs(t, "theme = \"Dracula\"\n")
	t.Setenv(EnvPath, path)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Dracula" {
		t.Fatalf("Theme = %q, want Dracula", p.Theme)
	}
}

func TestLoad_OutOfRangeValuesFallBack(t *testing.T) {
	path := writePrefs(t, "tick_rate = -1.0\nframe_rate = 5000.0\npoll_interval = \"soon\"\ntheme = \"\"\nlog_level = \"\"\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.TickRate != defaultTickRate || p.FrameRate != defaultFrameRate {
		t.Fatalf("rates = %v/%v, want defaults", p.TickRate, p.FrameRate)
	}
	if p.PollInterval != "1s" {
		t.Fatalf("PollInterval = %q, want 1s", p.PollInterval)
	}
	if p.Theme != defaultTheme || p.LogLevel != defaultLogLevel {
		t.Fatalf("Theme = %q, LogLevel = %q; want defaults", p.Theme, p.LogLevel)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := writePrefs(t, "not valid toml {{{\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Defaults()
	p.Theme = "Slate"
	p.Keybindings = map[string]map[string]string{"Home": {"<x>": "Quit"}}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	if loaded.Keybindings["Home"]["<x>"] != "Quit" {
		t.Fatalf("Keybindings = %v", loaded.Keybindings)
	}
}

func TestLogPathOff(t *testing.T) {
	p := Defaults()
	p.LogFile = "OFF"
	if got := p.LogPath(); got != "" {
		t.Fatalf("LogPath() = %q, want empty", got)
	}
}

func TestKeyTable_DefaultsAndOverrides(t *testing.T) {
	path := writePrefs(t, `
[keybindings.home]
"<g><q>" = "quit"
"<r>" = "Render"
`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	table, err := p.KeyTable()
	if err != nil {
		t.Fatalf("KeyTable returned error: %v", err)
	}

	home := table[keymap.ModeHome]
	lookup := func(text string) action.Action {
		t.Helper()
		chord, err := keymap.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		act, ok := home.Lookup(chord)
		if !ok {
			t.Fatalf("%s is not bound", text)
		}
		return act
	}

	if _, ok := lookup("<q>").(action.Quit); !ok {
		t.Fatalf("default <q> binding lost")
	}
	if _, ok := lookup("<g><q>").(action.Quit); !ok {
		t.Fatalf("<g><q> should quit")
	}
	if _, ok := lookup("<r>").(action.Render); !ok {
		t.Fatalf("<r> should render")
	}
}

func TestKeyTable_Errors(t *testing.T) {
	cases := []map[string]map[string]string{
		{"Nowhere": {"<q>": "Quit"}},
		{"Home": {"q": "Quit"}},
		{"Home": {"<q>": "Explode"}},
	}
	for _, bindings := range cases {
		p := Defaults()
		p.Keybindings = bindings
		if _, err := p.KeyTable(); err == nil {
			t.Fatalf("KeyTable(%v) succeeded, want error", bindings)
		}
	}
}
