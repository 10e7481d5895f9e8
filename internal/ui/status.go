package ui

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/mushtum/mushtumgram/internal/domain"
)

var (
	statusBarBg     = lipgloss.Color("#353533")
	statusPillBg    = lipgloss.Color("#3390EC")
	statusPillBgOff = lipgloss.Color("#6C5098")
	statusTimeBg    = lipgloss.Color("#229ED9")
)

type statusModel struct {
	text      string
	mode      domain.Mode
	chatTitle string
	phone     string
	width     int
}

func newStatusModel() statusModel {
	return statusModel{text: "Mushtumgram Lite"}
}

func (m statusModel) SetWidth(w int) statusModel {
	m.width = w
	return m
}

func (m statusModel) SetChatTitle(title string) statusModel {
	m.chatTitle = title
	return m
}

func (m statusModel) SetPhone(phone string) statusModel {
	m.phone = phone
	return m
}

func (m statusModel) SetMode(mode domain.Mode) statusModel {
	m.mode = mode
	return m
}

// View renders a full-width status bar:
// [MODE pill] [status text / chat title] ... [phone] [time pill]
func (m statusModel) View() string {
	pillBg := statusPillBgOff
	if m.mode == domain.ModeReal {
		pillBg = statusPillBg
	}
	pillStyle := lipgloss.NewStyle().
		Background(pillBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	pill := pillStyle.Render(strings.ToUpper(m.mode.String()))

	titleText := m.text
	if m.chatTitle != "" {
		titleText = m.chatTitle
	}
	titleStyle := lipgloss.NewStyle().
		Background(statusBarBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	title := titleStyle.Render(titleText)

	timeStyle := lipgloss.NewStyle().
		Background(statusTimeBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	timePill := timeStyle.Render(time.Now().Format("15:04"))

	phoneStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("#7B5EA7")).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1)
	phonePill := phoneStyle.Render(m.phone)

	left := pill + title
	right := phonePill + timePill

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Background(statusBarBg).
		Render(strings.Repeat(" ", gap))

	barStyle := lipgloss.NewStyle().
		Background(statusBarBg).
		Width(m.width)

	return barStyle.Render(left + filler + right)
}
