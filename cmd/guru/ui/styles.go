// Package ui provides the visual styling for the guru demo harness.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors shared across the harness output.
var (
	Destructive = lipgloss.Color("#e53935") // failure red
	SuccessCol  = lipgloss.Color("#8BC34A") // lime green
	WarningCol  = lipgloss.Color("#FFC107") // amber
)

// Styles for one-line status output.
var (
	Failure = lipgloss.NewStyle().Foreground(Destructive).Bold(true)
	Success = lipgloss.NewStyle().Foreground(SuccessCol)
	Warn    = lipgloss.NewStyle().Foreground(WarningCol)
)
