package ui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// InputModel is the message composer at the bottom of the chat pane.
type InputModel struct {
	input   textinput.Model
	focused bool
	width   int
	height  int
}

func NewInputModel() InputModel {
	ti := textinput.New()
	ti.Placeholder = "Xabar yozing..."
	return InputModel{input: ti}
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.SetValue("")
		return m, func() tea.Msg {
			return sendMessageMsg{text: text}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(m.input.View())
}

// Value returns the current draft text.
func (m InputModel) Value() string {
	return m.input.Value()
}

// SetValue replaces the draft text (used when switching chats).
func (m InputModel) SetValue(text string) InputModel {
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m
}

func (m InputModel) SetSize(w, h int) InputModel {
	m.width = w
	m.height = h
	innerW := w - 4
	if innerW < 1 {
		innerW = 1
	}
	m.input.SetWidth(innerW)
	return m
}

func (m InputModel) SetFocused(f bool) InputModel {
	m.focused = f
	if f {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}
