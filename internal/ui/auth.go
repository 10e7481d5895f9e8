package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mushtum/mushtumgram/internal/auth"
	"github.com/mushtum/mushtumgram/internal/backend"
	"github.com/mushtum/mushtumgram/internal/domain"
)

const (
	demoCodeDelay  = 1500 * time.Millisecond
	demoLoginDelay = time.Second
)

// AuthModel renders the phone-entry and code-entry screens and drives
// the login flow. The flow itself holds the step/countdown state; this
// model owns only the inputs and the in-flight marker.
type AuthModel struct {
	flow    *auth.Flow
	backend backend.Client

	phoneInput textinput.Model
	codeInput  textinput.Model
	spin       spinner.Model

	loading bool
	errText string
	notice  string

	width, height int
}

func NewAuthModel(flow *auth.Flow, bc backend.Client) AuthModel {
	phone := textinput.New()
	phone.Placeholder = "+998 90 123 45 67"
	phone.SetValue(auth.PhonePrefix)
	phone.CharLimit = 17

	code := textinput.New()
	code.Placeholder = "•••••"
	code.CharLimit = auth.CodeLen

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AuthModel{
		flow:       flow,
		backend:    bc,
		phoneInput: phone,
		codeInput:  code,
		spin:       sp,
	}
}

func (m AuthModel) Init() tea.Cmd {
	return m.phoneInput.Focus()
}

func (m AuthModel) SetSize(w, h int) AuthModel {
	m.width = w
	m.height = h
	m.phoneInput.SetWidth(24)
	m.codeInput.SetWidth(12)
	return m
}

func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case authTickMsg:
		m.flow.Tick()
		if m.flow.Step() == auth.StepCode && !m.flow.CanResend() {
			return m, countdownTick()
		}
		return m, nil

	case CodeSentMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = presentAuthError(msg.Err)
			return m, nil
		}
		if m.flow.Step() == auth.StepCode {
			// Resend acknowledgement: the countdown already restarted
			// and the user may be mid-typing a code.
			return m, nil
		}
		m.flow.CodeSent()
		m.errText = ""
		m.codeInput.SetValue("")
		cmds := []tea.Cmd{m.codeInput.Focus(), countdownTick()}
		return m, tea.Batch(cmds...)

	case LoginDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = presentAuthError(msg.Err)
			return m, nil
		}
		// Promotion to messaging happens in the root model.
		return m, nil
	}
	return m, nil
}

func (m AuthModel) handleKey(msg tea.KeyMsg) (AuthModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	switch m.flow.Step() {
	case auth.StepPhone:
		switch msg.String() {
		case "enter":
			return m.submitPhone()
		case "ctrl+r":
			if m.flow.Mode() == domain.ModeDemo {
				m.flow.SetMode(domain.ModeReal)
			} else {
				m.flow.SetMode(domain.ModeDemo)
			}
			m.errText = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.phoneInput, cmd = m.phoneInput.Update(msg)
		// Clamp to the fixed-prefix format as the user types.
		m.phoneInput.SetValue(auth.NormalizePhone(m.phoneInput.Value()))
		return m, cmd

	case auth.StepCode:
		switch msg.String() {
		case "enter":
			return m.submitCode()
		case "esc":
			m.flow.EditNumber()
			m.errText = ""
			m.notice = ""
			m.codeInput.SetValue("")
			return m, m.phoneInput.Focus()
		case "r":
			if m.flow.CanResend() {
				return m.resend()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		m.codeInput.SetValue(digitsOnly(m.codeInput.Value()))
		return m, cmd
	}
	return m, nil
}

func (m AuthModel) submitPhone() (AuthModel, tea.Cmd) {
	phone, err := m.flow.SubmitPhone(m.phoneInput.Value())
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.errText = ""
	m.loading = true

	if m.flow.Mode() == domain.ModeDemo {
		return m, tea.Batch(m.spin.Tick,
			tea.Tick(demoCodeDelay, func(time.Time) tea.Msg { return CodeSentMsg{} }))
	}

	bc := m.backend
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return CodeSentMsg{Err: bc.SendCode(context.Background(), phone)}
	})
}

func (m AuthModel) submitCode() (AuthModel, tea.Cmd) {
	code := m.codeInput.Value()
	if err := m.flow.SubmitCode(code); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.errText = ""
	m.loading = true

	if m.flow.Mode() == domain.ModeDemo {
		return m, tea.Batch(m.spin.Tick,
			tea.Tick(demoLoginDelay, func(time.Time) tea.Msg { return LoginDoneMsg{} }))
	}

	bc := m.backend
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return LoginDoneMsg{Err: bc.Login(context.Background(), code)}
	})
}

func (m AuthModel) resend() (AuthModel, tea.Cmd) {
	m.flow.Resend()
	if m.flow.Mode() == domain.ModeDemo {
		m.notice = fmt.Sprintf("SMS yuborish simulyatsiyasi: Kod %s", auth.DemoCode)
		return m, countdownTick()
	}
	m.notice = "Kod qayta so'raldi"
	phone := m.flow.Phone()
	bc := m.backend
	return m, tea.Batch(countdownTick(), func() tea.Msg {
		return CodeSentMsg{Err: bc.SendCode(context.Background(), phone)}
	})
}

func (m AuthModel) View() string {
	var body string
	switch m.flow.Step() {
	case auth.StepPhone:
		body = m.phoneView()
	default:
		body = m.codeView()
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 4).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m AuthModel) phoneView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Mushtumgram Lite")

	modeLine := hintStyle.Render("Rejim: demo  (ctrl+r — real serverga o'tish)")
	if m.flow.Mode() == domain.ModeReal {
		modeLine = errorStyle.Render("REAL SERVER MODE") + hintStyle.Render("  (ctrl+r — demo)")
	}

	lines := []string{
		title,
		"",
		"Mamlakatingiz va telefon raqamingizni kiriting.",
		"",
		m.phoneInput.View(),
		"",
		modeLine,
	}
	if m.loading {
		lines = append(lines, "", m.spin.View()+" Ulanmoqda...")
	}
	if m.errText != "" {
		lines = append(lines, "", errorStyle.Render(m.errText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m AuthModel) codeView() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.flow.Phone())

	lines := []string{
		title + hintStyle.Render("  (esc — raqamni tahrirlash)"),
		"",
		"Biz kodni Telegram ilovasiga yubordik.",
		"",
		m.codeInput.View(),
	}
	if m.flow.Mode() == domain.ModeDemo {
		lines = append(lines, "", hintStyle.Render("Demo kod: "+auth.DemoCode))
	}
	if m.flow.CanResend() {
		lines = append(lines, "", "Kod kelmadimi? 'r' — SMS orqali yuborish")
	} else {
		lines = append(lines, "", hintStyle.Render(
			fmt.Sprintf("Kod kelmadimi? %s dan so'ng", auth.FormatCountdown(m.flow.ResendLeft()))))
	}
	if m.notice != "" {
		lines = append(lines, "", hintStyle.Render(m.notice))
	}
	if m.loading {
		lines = append(lines, "", m.spin.View()+" Tekshirilmoqda...")
	}
	if m.errText != "" {
		lines = append(lines, "", errorStyle.Render(m.errText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return authTickMsg{} })
}

// presentAuthError keeps backend-reported reasons verbatim and gives
// transport failures their own distinguishable message.
func presentAuthError(err error) string {
	if errors.Is(err, domain.ErrBackendUnreachable) {
		return "Backendga ulanib bo'lmadi. Server ishlayaptimi?"
	}
	return err.Error()
}

func digitsOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
