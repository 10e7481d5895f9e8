package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"
)

func pressEnter() tea.Msg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestInputIgnoresWhitespaceOnlyMessage(t *testing.T) {
	m := NewInputModel()
	m = m.SetValue("   \t ")

	m, cmd := m.Update(pressEnter())
	require.Nil(t, cmd)
	require.Equal(t, "   \t ", m.Value())
}

func TestInputTrimsBeforeSend(t *testing.T) {
	m := NewInputModel()
	m = m.SetValue("  salom  ")

	m, cmd := m.Update(pressEnter())
	require.NotNil(t, cmd)

	sent, ok := cmd().(sendMessageMsg)
	require.True(t, ok)
	require.Equal(t, "salom", sent.text)
	require.Equal(t, "", m.Value())
}
