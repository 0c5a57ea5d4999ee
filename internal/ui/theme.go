// Package ui holds the interactive prompts and the styled terminal output of
// the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue  = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorGray  = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	fileStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			PaddingLeft(2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)
