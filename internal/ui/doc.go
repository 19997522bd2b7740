// Package ui holds the color theme of mpcalc's terminal output and the
// lipgloss styles built from it. Colors are disabled by -no-color or by the
// NO_COLOR environment variable.
package ui
