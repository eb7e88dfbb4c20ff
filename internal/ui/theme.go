package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pueuetop/internal/ui/tasktable"
)

// Theme defines the colors of the dashboard. Empty colors leave the
// terminal's own default in place.
type Theme struct {
	Name string

	// Table colors
	SelectionBg   string // Selected row background
	SelectionText string // Selected row text

	// Text colors
	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(color(t.Success)),

		WarningText: lipgloss.NewStyle().
			Foreground(color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(color(t.Text)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(color(t.SelectionBg)).
			Foreground(color(t.SelectionText)),

		AppName: lipgloss.NewStyle().
			Foreground(color(t.Accent)).
			Bold(true),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	// Components
	Header   lipgloss.Style
	Selected lipgloss.Style
	AppName  lipgloss.Style
}

// Table maps the theme onto the task table.
func (s Styles) Table() tasktable.Styles {
	return tasktable.Styles{
		Header:    s.Header,
		Selected:  s.Selected,
		Neutral:   s.Text,
		Warning:   s.WarningText,
		Success:   s.SuccessText,
		Danger:    s.DangerText.UnsetBold(),
		Scrollbar: s.MutedText,
	}
}

func color(c string) lipgloss.TerminalColor {
	if c == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}

// Theme definitions

var themes = map[string]Theme{
	"Terminal": terminalTheme(),
	"Dracula":  draculaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Terminal", "Dracula", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return terminalTheme()
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func terminalTheme() Theme {
	// The 16-color ANSI palette, so the table follows the user's terminal scheme.
	return Theme{
		Name: "Terminal",

		SelectionBg: "0", // black

		Muted:   "8", // bright black
		Accent:  "4", // blue
		Success: "2", // green
		Warning: "3", // yellow
		Danger:  "1", // red
	}
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		SelectionBg:   "#44475A", // Selection
		SelectionText: "#F8F8F2", // Foreground

		Text:    "#F8F8F2", // Foreground
		Muted:   "#6272A4", // Comment
		Accent:  "#BD93F9", // Purple
		Success: "#50FA7B", // Green
		Warning: "#F1FA8C", // Yellow
		Danger:  "#FF5555", // Red
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#facc15", // yellow-400
		Danger:  "#ef4444", // red-500
	}
}
