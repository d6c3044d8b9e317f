package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette of the UI.
type Theme struct {
	Name string

	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color

	Mauve  lipgloss.Color
	Red    lipgloss.Color
	Peach  lipgloss.Color
	Yellow lipgloss.Color
	Green  lipgloss.Color
	Teal   lipgloss.Color
	Blue   lipgloss.Color

	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color

	// Chroma is the chroma style used for highlighted bodies.
	Chroma string
}

// Mocha is the default dark palette.
var Mocha = Theme{
	Name:    "mocha",
	Base:    lipgloss.Color("#1e1e2e"),
	Surface: lipgloss.Color("#313244"),
	Overlay: lipgloss.Color("#45475a"),

	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Muted:   lipgloss.Color("#585b70"),

	Mauve:  lipgloss.Color("#cba6f7"),
	Red:    lipgloss.Color("#f38ba8"),
	Peach:  lipgloss.Color("#fab387"),
	Yellow: lipgloss.Color("#f9e2af"),
	Green:  lipgloss.Color("#a6e3a1"),
	Teal:   lipgloss.Color("#94e2d5"),
	Blue:   lipgloss.Color("#89b4fa"),

	BorderFocused:   lipgloss.Color("#cba6f7"),
	BorderUnfocused: lipgloss.Color("#585b70"),

	Chroma: "catppuccin-mocha",
}

// Latte is the light palette.
var Latte = Theme{
	Name:    "latte",
	Base:    lipgloss.Color("#eff1f5"),
	Surface: lipgloss.Color("#ccd0da"),
	Overlay: lipgloss.Color("#9ca0b0"),

	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Muted:   lipgloss.Color("#8c8fa1"),

	Mauve:  lipgloss.Color("#8839ef"),
	Red:    lipgloss.Color("#d20f39"),
	Peach:  lipgloss.Color("#fe640b"),
	Yellow: lipgloss.Color("#df8e1d"),
	Green:  lipgloss.Color("#40a02b"),
	Teal:   lipgloss.Color("#179299"),
	Blue:   lipgloss.Color("#1e66f5"),

	BorderFocused:   lipgloss.Color("#8839ef"),
	BorderUnfocused: lipgloss.Color("#8c8fa1"),

	Chroma: "catppuccin-latte",
}

// Default returns the default theme.
func Default() Theme {
	return Mocha
}

// Resolve returns the named theme, falling back to Mocha.
func Resolve(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latte", "light":
		return Latte
	default:
		return Mocha
	}
}

// MethodColor returns the colour for an HTTP method.
func (t Theme) MethodColor(method string) lipgloss.Color {
	switch method {
	case "GET":
		return t.Green
	case "POST":
		return t.Yellow
	case "PUT":
		return t.Blue
	case "DELETE":
		return t.Red
	default:
		return t.Text
	}
}

// StatusColor returns the colour for an HTTP status code.
func (t Theme) StatusColor(code int) lipgloss.Color {
	switch {
	case code >= 200 && code < 300:
		return t.Green
	case code >= 300 && code < 400:
		return t.Blue
	case code >= 400 && code < 500:
		return t.Yellow
	case code >= 500:
		return t.Red
	default:
		return t.Text
	}
}
