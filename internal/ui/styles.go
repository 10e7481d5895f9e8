package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	daySeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	timeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	outNameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	inNameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	typingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	tickStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	onlineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	dimColor       = lipgloss.Color("240") // gray
	highlightColor = lipgloss.Color("#3390EC")

	// Telegram-blue gradient for focused borders (wraps back to start).
	telegramBlend = []color.Color{
		lipgloss.Color("#3390EC"),
		lipgloss.Color("#229ED9"),
		lipgloss.Color("#54A9EB"),
		lipgloss.Color("#3390EC"),
	}
)

// applyBorderColor applies either the blend (focused) or dim border color.
func applyBorderColor(s lipgloss.Style, focused bool) lipgloss.Style {
	if focused {
		return s.BorderForegroundBlend(telegramBlend...)
	}
	return s.BorderForeground(dimColor)
}

// truncateHeight limits s to at most maxLines lines.
func truncateHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}
