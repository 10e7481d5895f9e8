package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const splashArt = `
                       _     _
 _ __ ___  _   _  ___ | |__ | |_ _   _ _ __ ___
| '_ ` + "`" + ` _ \| | | |/ __|| '_ \| __| | | | '_ ` + "`" + ` _ \
| | | | | | |_| |\__ \| | | | |_| |_| | | | | | |
|_| |_| |_|\__,_||___/|_| |_|\__|\__,_|_| |_| |_|
                                       g r a m
`

// connectionScript is the narrated connect sequence shown under the
// logo. Purely cosmetic text with fixed delays; there is no real
// handshake happening here.
var connectionScript = []string{
	"Resolving DC2 IP...",
	"Connecting to 149.154.167.50:443...",
	"Exchanging RSA Keys (MIIBCgKCAQEA6Lsz...)...",
	"Handshake success! Session created.",
}

const splashLineDelay = 800 * time.Millisecond

// SplashModel renders a centered splash overlay on startup, narrating
// the scripted connection lines before dismissing itself.
type SplashModel struct {
	visible       bool
	line          int
	width, height int
}

// NewSplashModel creates a visible splash at the first script line.
func NewSplashModel() SplashModel {
	return SplashModel{visible: true}
}

// Init schedules the narration sequence.
func (s SplashModel) Init() tea.Cmd {
	return tea.Tick(splashLineDelay, func(time.Time) tea.Msg { return splashLineMsg{index: 1} })
}

// Advance moves to the next script line, returning the follow-up tick
// (or the dismissal once the script is exhausted).
func (s SplashModel) Advance(index int) (SplashModel, tea.Cmd) {
	s.line = index
	if index >= len(connectionScript)-1 {
		return s, tea.Tick(splashLineDelay, func(time.Time) tea.Msg { return SplashDoneMsg{} })
	}
	next := index + 1
	return s, tea.Tick(splashLineDelay, func(time.Time) tea.Msg { return splashLineMsg{index: next} })
}

// Dismiss hides the splash.
func (s SplashModel) Dismiss() SplashModel {
	s.visible = false
	return s
}

// SetSize updates the terminal dimensions for centering.
func (s SplashModel) SetSize(w, h int) SplashModel {
	s.width = w
	s.height = h
	return s
}

// IsVisible reports whether the splash is still showing.
func (s SplashModel) IsVisible() bool {
	return s.visible
}

// View renders the splash box centered to the full terminal.
func (s SplashModel) View() string {
	if !s.visible || s.width == 0 || s.height == 0 {
		return ""
	}

	narration := typingStyle.Render(connectionScript[s.line])
	content := splashArt + "\n" + narration

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 3).
		Render(content)

	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}
