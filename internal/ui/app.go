package ui

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mushtum/mushtumgram/internal/auth"
	"github.com/mushtum/mushtumgram/internal/backend"
	"github.com/mushtum/mushtumgram/internal/domain"
	"github.com/mushtum/mushtumgram/internal/engine"
	"github.com/mushtum/mushtumgram/internal/persona"
	"github.com/mushtum/mushtumgram/internal/state"
)

type focusTarget int

const (
	focusChatList focusTarget = iota
	focusMessages
	focusInput
)

const chatListWidth = 36

// inputRenderedHeight is the total height of the input box (1 inner + 2 border).
const inputRenderedHeight = 3

// statusBarHeight is the single status row at the bottom.
const statusBarHeight = 1

// Model is the root Bubble Tea model.
type Model struct {
	chatList    ChatListModel
	messageView MessageViewModel
	input       InputModel
	authView    AuthModel
	status      statusModel
	splash      SplashModel
	help        HelpModel

	store   *state.Store
	engine  *engine.Engine
	backend backend.Client
	flow    *auth.Flow

	focus  focusTarget
	width  int
	height int
}

// NewModel creates the root model with all sub-components.
func NewModel(store *state.Store, eng *engine.Engine, bc backend.Client, flow *auth.Flow) Model {
	return Model{
		chatList:    NewChatListModel(),
		messageView: NewMessageViewModel(),
		input:       NewInputModel(),
		authView:    NewAuthModel(flow, bc),
		status:      newStatusModel(),
		splash:      NewSplashModel(),
		help:        NewHelpModel(),
		store:       store,
		engine:      eng,
		backend:     bc,
		flow:        flow,
		focus:       focusChatList,
	}
}

func (m Model) Init() tea.Cmd {
	bc := m.backend
	return tea.Batch(
		m.splash.Init(),
		m.authView.Init(),
		m.input.Init(),
		func() tea.Msg {
			// Auto-resume: an authenticated proxy session skips login.
			ok, err := bc.CheckSession(context.Background())
			return SessionCheckedMsg{Authorized: ok && err == nil}
		},
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.distributeSize()
		return m, nil

	case splashLineMsg:
		var cmd tea.Cmd
		m.splash, cmd = m.splash.Advance(msg.index)
		return m, cmd

	case SplashDoneMsg:
		m.splash = m.splash.Dismiss()
		return m, nil

	case SessionCheckedMsg:
		if msg.Authorized && m.flow.Step() == auth.StepPhone {
			m.flow.SetMode(domain.ModeReal)
			m.flow.LoggedIn()
			mm, cmd := m.enterMessaging()
			return mm, cmd
		}
		return m, nil

	case CodeSentMsg, authTickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd

	case LoginDoneMsg:
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		if msg.Err == nil && m.flow.Step() == auth.StepCode {
			m.flow.LoggedIn()
			mm, enterCmd := m.enterMessaging()
			return mm, tea.Batch(cmd, enterCmd)
		}
		return m, cmd

	case StoreUpdatedMsg:
		m = m.refreshFromStore()
		return m, nil

	case ChatSelectedMsg:
		return m.selectChat(msg.ContactID)

	case sendMessageMsg:
		chatID := m.store.ActiveID()
		if chatID == "" {
			return m, nil
		}
		eng := m.engine
		text := msg.text
		cmds = append(cmds, func() tea.Msg {
			return SendDoneMsg{Err: eng.Send(context.Background(), chatID, text)}
		})
		return m, tea.Batch(cmds...)

	case SendDoneMsg:
		if msg.Err != nil {
			m.status.text = presentSendError(msg.Err)
		} else {
			m.status.text = ""
		}
		return m, nil

	case DialogsRefreshedMsg:
		if msg.Err != nil {
			m.status.text = "Kontaktlarni yangilab bo'lmadi (ctrl+g — qayta urinish)"
		} else {
			m.status.text = "Kontaktlar yangilandi"
		}
		return m, nil

	case StatusMsg:
		m.status.text = msg.Text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.splash.IsVisible() {
		return m, nil
	}

	if m.help.IsVisible() {
		switch msg.String() {
		case "f1", "esc":
			m.help = m.help.Toggle()
		}
		return m, nil
	}

	if m.flow.Step() != auth.StepMessaging {
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "f1":
		m.help = m.help.Toggle()
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % 3
		m = m.updateFocus()
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		m = m.updateFocus()
		return m, nil
	case "esc":
		m.focus = focusChatList
		m = m.updateFocus()
		return m, nil
	case "ctrl+g":
		if m.flow.Mode() == domain.ModeReal {
			eng := m.engine
			return m, func() tea.Msg {
				return DialogsRefreshedMsg{Err: eng.RefreshContacts(context.Background())}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusChatList:
		m.chatList, cmd = m.chatList.Update(msg)
	case focusMessages:
		m.messageView, cmd = m.messageView.Update(msg)
	case focusInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// enterMessaging seeds the store for the chosen mode and starts the
// real-mode dialog refresh.
func (m Model) enterMessaging() (Model, tea.Cmd) {
	m.status = m.status.SetMode(m.flow.Mode()).SetPhone(m.flow.Phone())

	var cmd tea.Cmd
	if m.flow.Mode() == domain.ModeDemo {
		m.store.Seed(persona.DemoContacts())
	} else {
		m.store.Seed([]domain.Contact{persona.SelfChat()})
		eng := m.engine
		cmd = func() tea.Msg {
			return DialogsRefreshedMsg{Err: eng.RefreshContacts(context.Background())}
		}
	}

	m = m.refreshFromStore()
	m.focus = focusChatList
	m = m.updateFocus()
	return m, cmd
}

func (m Model) selectChat(id string) (tea.Model, tea.Cmd) {
	// Keep the draft of the chat being left.
	if prev := m.store.ActiveID(); prev != "" {
		m.store.SetDraft(prev, m.input.Value())
	}

	m.store.SelectContact(id)
	if c, ok := m.store.Contact(id); ok {
		m.messageView = m.messageView.SetChat(c)
		m.status = m.status.SetChatTitle(c.Name)
	}
	m.messageView = m.messageView.SetMessages(m.store.Messages(id))
	m.messageView = m.messageView.SetComposing(m.store.Composing(id))
	m.input = m.input.SetValue(m.store.Draft(id))
	m.chatList = m.chatList.WithItems(m.store.Contacts())

	m.focus = focusInput
	m = m.updateFocus()
	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if m.splash.IsVisible() {
		v.SetContent(m.splash.View())
		return v
	}

	if m.flow.Step() != auth.StepMessaging {
		v.SetContent(m.authView.View())
		return v
	}

	chatListView := m.chatList.View()
	messagesView := m.messageView.View()
	inputView := m.input.View()
	rightPane := lipgloss.JoinVertical(lipgloss.Left, messagesView, inputView)

	full := lipgloss.JoinHorizontal(lipgloss.Top, chatListView, rightPane)
	full = lipgloss.JoinVertical(lipgloss.Left, full, m.status.View())

	mainContent := lipgloss.NewStyle().
		MaxWidth(m.width).
		MaxHeight(m.height).
		Render(full)

	if m.help.IsVisible() {
		x, y := m.help.BoxOffset()
		bg := lipgloss.NewLayer(mainContent)
		fg := lipgloss.NewLayer(m.help.View()).X(x).Y(y).Z(1)
		comp := lipgloss.NewCompositor(bg, fg)
		v.SetContent(comp.Render())
	} else {
		v.SetContent(mainContent)
	}
	return v
}

func (m Model) distributeSize() Model {
	contentHeight := m.height - statusBarHeight

	clWidth := chatListWidth
	if clWidth > m.width {
		clWidth = m.width
	}
	m.chatList = m.chatList.SetSize(clWidth, contentHeight)

	rightWidth := m.width - clWidth
	if rightWidth < 1 {
		rightWidth = 1
	}

	messagesHeight := contentHeight - inputRenderedHeight
	if messagesHeight < 1 {
		messagesHeight = 1
	}

	m.messageView = m.messageView.SetSize(rightWidth, messagesHeight)
	m.input = m.input.SetSize(rightWidth, inputRenderedHeight)
	m.status = m.status.SetWidth(m.width)

	m.authView = m.authView.SetSize(m.width, m.height)
	m.splash = m.splash.SetSize(m.width, m.height)
	m.help = m.help.SetSize(m.width, m.height)

	return m
}

func (m Model) updateFocus() Model {
	m.chatList = m.chatList.SetFocused(m.focus == focusChatList)
	m.messageView = m.messageView.SetFocused(m.focus == focusMessages)
	m.input = m.input.SetFocused(m.focus == focusInput)
	return m
}

func (m Model) refreshFromStore() Model {
	m.chatList = m.chatList.WithItems(m.store.Contacts())

	if active := m.store.ActiveID(); active != "" {
		m.messageView = m.messageView.SetMessages(m.store.Messages(active))
		m.messageView = m.messageView.SetComposing(m.store.Composing(active))
	}

	return m
}

// presentSendError maps a failed send to the status line, keeping
// backend-reported reasons verbatim.
func presentSendError(err error) string {
	if errors.Is(err, domain.ErrBackendUnreachable) {
		return "Backendga ulanib bo'lmadi. Xabar yuborilmadi."
	}
	return fmt.Sprintf("Xato: %v", err)
}

// App wraps the Bubble Tea program for external use.
type App struct {
	program *tea.Program
}

// NewApp creates a new App ready to Run.
func NewApp(store *state.Store, eng *engine.Engine, bc backend.Client, flow *auth.Flow) *App {
	model := NewModel(store, eng, bc, flow)
	p := tea.NewProgram(model)
	return &App{program: p}
}

// Run starts the Bubble Tea event loop (blocks until quit).
func (a *App) Run() error {
	_, err := a.program.Run()
	return err
}

// Send sends a message into the Bubble Tea event loop from external goroutines.
func (a *App) Send(msg tea.Msg) {
	go a.program.Send(msg)
}

// DrawFunc returns a function suitable for state.Store that triggers a re-render.
func (a *App) DrawFunc() func() {
	return func() {
		a.Send(StoreUpdatedMsg{})
	}
}
