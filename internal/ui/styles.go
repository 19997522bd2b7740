package ui

import "github.com/charmbracelet/lipgloss"

func render(color func(Theme) lipgloss.TerminalColor, bold bool, s string) string {
	t := GetCurrentTheme()
	if t.Name == NoColorTheme.Name {
		return s
	}
	return lipgloss.NewStyle().Foreground(color(t)).Bold(bold).Render(s)
}

// Title renders a heading.
func Title(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Primary }, true, s)
}

// Value renders a computed result.
func Value(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Info }, true, s)
}

// Exact renders text describing an exact or agreeing outcome.
func Exact(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Success }, false, s)
}

// Inexact renders text describing a rounded outcome.
func Inexact(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Warning }, false, s)
}

// Failure renders an error or a mismatch.
func Failure(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Error }, true, s)
}

// Dim renders secondary details.
func Dim(s string) string {
	return render(func(t Theme) lipgloss.TerminalColor { return t.Secondary }, false, s)
}

// TableHeader is the style of table header cells.
func TableHeader() lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if ColorsEnabled() {
		st = st.Bold(true).Foreground(GetCurrentTheme().Primary)
	}
	return st
}

// TableCell is the style of table body cells.
func TableCell() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}
