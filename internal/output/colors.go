package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Title     *color.Color
	Label     *color.Color
	Value     *color.Color
	Highlight *color.Color
	Bar       *color.Color
	Success   *color.Color
	Warning   *color.Color
	Error     *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:     color.New(color.FgBlue, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Highlight: color.New(color.FgMagenta, color.Bold),
		Bar:       color.New(color.FgCyan),
		Success:   color.New(color.FgGreen),
		Warning:   color.New(color.FgYellow, color.Bold),
		Error:     color.New(color.FgRed, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// ForceColorScheme returns the default scheme with colors enabled even when
// the output is not a terminal
func ForceColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.EnableColor()
	}
	return scheme
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{s.Title, s.Label, s.Value, s.Highlight, s.Bar, s.Success, s.Warning, s.Error}
}

// UseColor reports whether colored output should be written to f
func UseColor(noColor bool, f *os.File) bool {
	if noColor || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
