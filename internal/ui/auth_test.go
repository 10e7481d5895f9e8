package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mushtum/mushtumgram/internal/auth"
	"github.com/mushtum/mushtumgram/internal/domain"
)

func TestCodeSentEntersCodeStep(t *testing.T) {
	flow := auth.New(domain.ModeReal)
	_, err := flow.SubmitPhone("+998901234567")
	require.NoError(t, err)

	m := NewAuthModel(flow, nil)
	m, _ = m.Update(CodeSentMsg{})

	require.Equal(t, auth.StepCode, flow.Step())
	require.Equal(t, auth.ResendSeconds, flow.ResendLeft())
}

func TestResendAckKeepsTypedCodeAndCountdown(t *testing.T) {
	flow := auth.New(domain.ModeReal)
	_, err := flow.SubmitPhone("+998901234567")
	require.NoError(t, err)
	flow.CodeSent()

	// User has been waiting a while and is mid-typing a code.
	for i := 0; i < 30; i++ {
		flow.Tick()
	}
	left := flow.ResendLeft()

	m := NewAuthModel(flow, nil)
	m.codeInput.SetValue("123")

	// The resend acknowledgement arrives as a plain CodeSentMsg.
	m, _ = m.Update(CodeSentMsg{})

	require.Equal(t, auth.StepCode, flow.Step())
	require.Equal(t, "123", m.codeInput.Value())
	require.Equal(t, left, flow.ResendLeft())
}
