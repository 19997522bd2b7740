package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a color scheme for terminal output.
type Theme struct {
	Name      string
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Info      lipgloss.TerminalColor
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("39"),
		Secondary: lipgloss.Color("245"),
		Success:   lipgloss.Color("82"),
		Warning:   lipgloss.Color("220"),
		Error:     lipgloss.Color("196"),
		Info:      lipgloss.Color("141"),
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("27"),
		Secondary: lipgloss.Color("240"),
		Success:   lipgloss.Color("28"),
		Warning:   lipgloss.Color("130"),
		Error:     lipgloss.Color("124"),
		Info:      lipgloss.Color("54"),
	}

	// NoColorTheme renders text unchanged.
	NoColorTheme = Theme{
		Name:      "none",
		Primary:   lipgloss.NoColor{},
		Secondary: lipgloss.NoColor{},
		Success:   lipgloss.NoColor{},
		Warning:   lipgloss.NoColor{},
		Error:     lipgloss.NoColor{},
		Info:      lipgloss.NoColor{},
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select the dark theme.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme picks the theme for this run. noColor or a set NO_COLOR
// variable (https://no-color.org/) disable colors.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// ColorsEnabled reports whether the active theme emits colors.
func ColorsEnabled() bool {
	return GetCurrentTheme().Name != NoColorTheme.Name
}
