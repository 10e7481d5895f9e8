// Package auth holds the login state machine: phone entry, code entry,
// and the resend countdown. It is free of UI and network concerns; the
// Bubble Tea layer drives it and the backend client performs the real
// send-code/login calls.
package auth

import (
	"fmt"
	"strings"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// Step is the current screen of the login flow. Once StepMessaging is
// reached the flow never goes back.
type Step int

const (
	StepPhone Step = iota
	StepCode
	StepMessaging
)

const (
	// PhonePrefix is the required country code literal.
	PhonePrefix = "+998"
	// phoneLen is prefix + national number length.
	phoneLen = 13
	// CodeLen is the OTP length.
	CodeLen = 5
	// DemoCode is the softly preferred demo OTP. Demo mode accepts any
	// 5-digit code; this one is only shown as a hint.
	DemoCode = "77777"
	// ResendSeconds is the countdown before the resend action unlocks.
	ResendSeconds = 120
)

// Flow is the two-step login state machine.
type Flow struct {
	step       Step
	mode       domain.Mode
	phone      string
	resendLeft int
}

// New creates a flow at the phone-entry step.
func New(mode domain.Mode) *Flow {
	return &Flow{step: StepPhone, mode: mode}
}

func (f *Flow) Step() Step        { return f.step }
func (f *Flow) Mode() domain.Mode { return f.mode }
func (f *Flow) Phone() string     { return f.phone }

// SetMode switches demo/real. Only meaningful before login; the mode is
// fixed once the flow reaches StepMessaging.
func (f *Flow) SetMode(m domain.Mode) {
	if f.step != StepMessaging {
		f.mode = m
	}
}

// NormalizePhone clamps raw input to the fixed-country-code format:
// anything not starting with the prefix collapses to the bare prefix,
// all characters except digits and '+' are stripped, and the result is
// truncated to the full phone length.
func NormalizePhone(raw string) string {
	if !strings.HasPrefix(raw, PhonePrefix) {
		return PhonePrefix
	}
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > phoneLen {
		return s[:phoneLen]
	}
	return s
}

// SubmitPhone validates the (already normalized) phone number and
// records it. It does not transition: the caller performs the demo
// delay or the backend send-code call and then reports CodeSent.
func (f *Flow) SubmitPhone(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if len(phone) < phoneLen {
		return "", &domain.ValidationError{Reason: "Raqam noto'g'ri kiritildi. (+998...)"}
	}
	f.phone = phone
	return phone, nil
}

// CodeSent moves to code entry and starts the resend countdown.
func (f *Flow) CodeSent() {
	f.step = StepCode
	f.resendLeft = ResendSeconds
}

// SubmitCode validates the OTP. Demo mode accepts any 5-digit value.
// As with SubmitPhone, the transition happens via LoggedIn once the
// demo delay elapses or the backend accepts the code.
func (f *Flow) SubmitCode(code string) error {
	if len(code) != CodeLen || !allDigits(code) {
		return &domain.ValidationError{Reason: "Kod 5 xonali bo'lishi kerak."}
	}
	return nil
}

// LoggedIn promotes the flow to the messaging state. The mode flag is
// fixed from here on.
func (f *Flow) LoggedIn() {
	f.step = StepMessaging
	f.resendLeft = 0
}

// EditNumber returns from code entry to phone entry and cancels the
// resend countdown. A no-op in any other step.
func (f *Flow) EditNumber() {
	if f.step != StepCode {
		return
	}
	f.step = StepPhone
	f.resendLeft = 0
}

// Tick advances the resend countdown by one second. It only runs while
// the flow sits at code entry.
func (f *Flow) Tick() {
	if f.step == StepCode && f.resendLeft > 0 {
		f.resendLeft--
	}
}

// CanResend reports whether the countdown has elapsed.
func (f *Flow) CanResend() bool {
	return f.step == StepCode && f.resendLeft == 0
}

// Resend restarts the countdown after a resend request.
func (f *Flow) Resend() {
	if f.step == StepCode {
		f.resendLeft = ResendSeconds
	}
}

// ResendLeft returns the remaining countdown in seconds.
func (f *Flow) ResendLeft() int { return f.resendLeft }

// FormatCountdown renders seconds as m:ss for the code screen.
func FormatCountdown(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
