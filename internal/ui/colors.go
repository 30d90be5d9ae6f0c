package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent colors for names and headings
const (
	ColorAccent lipgloss.Color = "#FF2E97" // Neon pink
	ColorLink   lipgloss.Color = "#00F0FF" // Neon cyan
)

// ColorMode selects when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color setting. An empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// NewRenderer returns a lipgloss renderer for w. In auto mode the profile
// follows the terminal behind w and NO_COLOR disables styling.
func NewRenderer(w io.Writer, mode ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

// Styles are the lipgloss styles shared by help output and error reports.
type Styles struct {
	Heading lipgloss.Style
	Command lipgloss.Style
	Option  lipgloss.Style
	Operand lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles builds the palette against r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(ColorAccent),
		Command: r.NewStyle().Foreground(ColorLink),
		Option:  r.NewStyle().Foreground(ColorInfo),
		Operand: r.NewStyle().Foreground(ColorSecondary),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Success: r.NewStyle().Foreground(ColorSuccess),
		Error:   r.NewStyle().Bold(true).Foreground(ColorError),
		Warning: r.NewStyle().Foreground(ColorWarning),
		Info:    r.NewStyle().Foreground(ColorInfo),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	return NewStyles(NewRenderer(io.Discard, ColorNever))
}
