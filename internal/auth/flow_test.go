package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushtum/mushtumgram/internal/auth"
	"github.com/mushtum/mushtumgram/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare prefix kept", "+998", "+998"},
		{"valid number kept", "+998901234567", "+998901234567"},
		{"missing prefix collapses", "90 123 45 67", "+998"},
		{"arbitrary text collapses", "salom dunyo", "+998"},
		{"spaces and dashes stripped", "+998 90-123-45-67", "+998901234567"},
		{"overlong truncated", "+99890123456789", "+998901234567"},
		{"letters after prefix stripped", "+998abc90", "+99890"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.NormalizePhone(tc.in))
		})
	}
}

func TestSubmitPhone_TooShort(t *testing.T) {
	f := auth.New(domain.ModeDemo)

	_, err := f.SubmitPhone("+99890")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, auth.StepPhone, f.Step(), "no transition on validation failure")
	assert.Empty(t, f.Phone())
}

func TestSubmitPhone_RecordsNumber(t *testing.T) {
	f := auth.New(domain.ModeDemo)

	phone, err := f.SubmitPhone("+998 90 123 45 67")
	require.NoError(t, err)
	assert.Equal(t, "+998901234567", phone)
	assert.Equal(t, "+998901234567", f.Phone())
	// Transition waits for CodeSent (delay or backend ack).
	assert.Equal(t, auth.StepPhone, f.Step())

	f.CodeSent()
	assert.Equal(t, auth.StepCode, f.Step())
	assert.Equal(t, auth.ResendSeconds, f.ResendLeft())
}

func TestSubmitCode(t *testing.T) {
	f := auth.New(domain.ModeDemo)

	assert.Error(t, f.SubmitCode("1234"))
	assert.Error(t, f.SubmitCode("123456"))
	assert.Error(t, f.SubmitCode("12a45"))
	assert.True(t, domain.IsValidation(f.SubmitCode("")))

	// Demo mode is lenient: any 5-digit code passes, not only 77777.
	assert.NoError(t, f.SubmitCode("77777"))
	assert.NoError(t, f.SubmitCode("12345"))
}

func TestDemoLoginScenario(t *testing.T) {
	f := auth.New(domain.ModeDemo)

	_, err := f.SubmitPhone("+998901234567")
	require.NoError(t, err)
	f.CodeSent()
	require.Equal(t, auth.StepCode, f.Step())

	require.NoError(t, f.SubmitCode("12345"))
	f.LoggedIn()
	assert.Equal(t, auth.StepMessaging, f.Step())
	assert.Equal(t, domain.ModeDemo, f.Mode())
}

func TestEditNumber(t *testing.T) {
	f := auth.New(domain.ModeReal)

	_, err := f.SubmitPhone("+998901234567")
	require.NoError(t, err)
	f.CodeSent()
	require.Equal(t, auth.StepCode, f.Step())

	f.EditNumber()
	assert.Equal(t, auth.StepPhone, f.Step())
	assert.Equal(t, 0, f.ResendLeft(), "countdown cancelled")

	// EditNumber outside code entry does nothing.
	f.EditNumber()
	assert.Equal(t, auth.StepPhone, f.Step())
}

func TestResendCountdown(t *testing.T) {
	f := auth.New(domain.ModeDemo)
	_, err := f.SubmitPhone("+998901234567")
	require.NoError(t, err)
	f.CodeSent()

	assert.False(t, f.CanResend())
	for i := 0; i < auth.ResendSeconds; i++ {
		f.Tick()
	}
	assert.Equal(t, 0, f.ResendLeft())
	assert.True(t, f.CanResend())

	// Ticking past zero stays at zero.
	f.Tick()
	assert.Equal(t, 0, f.ResendLeft())

	f.Resend()
	assert.False(t, f.CanResend())
	assert.Equal(t, auth.ResendSeconds, f.ResendLeft())
}

func TestSetMode_FixedAfterLogin(t *testing.T) {
	f := auth.New(domain.ModeDemo)
	f.SetMode(domain.ModeReal)
	assert.Equal(t, domain.ModeReal, f.Mode())

	_, err := f.SubmitPhone("+998901234567")
	require.NoError(t, err)
	f.CodeSent()
	f.LoggedIn()

	f.SetMode(domain.ModeDemo)
	assert.Equal(t, domain.ModeReal, f.Mode(), "mode is fixed after login")
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "2:00", auth.FormatCountdown(120))
	assert.Equal(t, "1:05", auth.FormatCountdown(65))
	assert.Equal(t, "0:09", auth.FormatCountdown(9))
	assert.Equal(t, "0:00", auth.FormatCountdown(0))
}
