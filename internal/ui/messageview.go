package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// MessageViewModel displays the active chat's transcript. Peer
// messages go through glamour since bot replies often carry markdown.
type MessageViewModel struct {
	viewport  viewport.Model
	renderer  *glamour.TermRenderer
	focused   bool
	width     int
	height    int
	chatTitle string
	peerName  string
	composing bool
	messages  []domain.Message
}

func NewMessageViewModel() MessageViewModel {
	return MessageViewModel{viewport: viewport.New()}
}

func (m MessageViewModel) Update(msg tea.Msg) (MessageViewModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "j":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k":
			m.viewport.ScrollUp(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m MessageViewModel) View() string {
	contentH := m.height - 2
	if contentH < 0 {
		contentH = 0
	}

	content := truncateHeight(m.viewport.View(), contentH)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(content)
}

func (m MessageViewModel) SetSize(w, h int) MessageViewModel {
	m.width = w
	m.height = h
	vpW := w - 2
	vpH := h - 2
	if vpW < 1 {
		vpW = 1
	}
	if vpH < 1 {
		vpH = 1
	}
	m.viewport.SetWidth(vpW)
	m.viewport.SetHeight(vpH)
	m = m.recreateRenderer()
	m = m.renderContent()
	return m
}

func (m MessageViewModel) SetFocused(f bool) MessageViewModel {
	m.focused = f
	return m
}

// SetChat switches the view to a contact's transcript.
func (m MessageViewModel) SetChat(contact domain.Contact) MessageViewModel {
	m.chatTitle = contact.Name
	m.peerName = contact.Name
	if contact.SelfChat {
		m.peerName = ""
	}
	return m
}

func (m MessageViewModel) SetComposing(v bool) MessageViewModel {
	m.composing = v
	return m.renderContent()
}

func (m MessageViewModel) SetMessages(msgs []domain.Message) MessageViewModel {
	m.messages = msgs
	return m.renderContent()
}

func (m MessageViewModel) recreateRenderer() MessageViewModel {
	wordWrap := m.viewport.Width() - 2
	if wordWrap < 10 {
		wordWrap = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wordWrap),
	)
	if err == nil {
		m.renderer = r
	}
	return m
}

func (m MessageViewModel) renderContent() MessageViewModel {
	var b strings.Builder
	var currentDate string

	if len(m.messages) == 0 && !m.composing {
		empty := hintStyle.Render("Hozircha xabarlar yo'q.")
		if m.peerName == "" && m.chatTitle != "" {
			empty = hintStyle.Render("Cloud Storage — shaxsiy eslatmalaringiz uchun.")
		}
		b.WriteString(empty)
	}

	for _, msg := range m.messages {
		msgDate := msg.Time.Format("January 2, 2006")
		if msgDate != currentDate {
			if currentDate != "" {
				b.WriteString("\n")
			}
			sep := daySeparatorStyle.Render(fmt.Sprintf("───── %s ─────", msgDate))
			b.WriteString(sep + "\n")
			currentDate = msgDate
		}

		ts := timeStyle.Render(msg.Time.Format("15:04"))

		if msg.Sender == domain.SenderSelf {
			name := outNameStyle.Render("Siz:")
			fmt.Fprintf(&b, "%s %s %s %s\n", ts, name, msg.Text, tickStyle.Render(statusTicks(msg.Status)))
		} else {
			name := inNameStyle.Render(m.peerName + ":")
			rendered := m.renderMarkdown(msg.Text)
			if strings.Contains(rendered, "\n") {
				fmt.Fprintf(&b, "%s %s\n%s\n", ts, name, rendered)
			} else {
				fmt.Fprintf(&b, "%s %s %s\n", ts, name, rendered)
			}
		}
	}

	if m.composing && m.peerName != "" {
		b.WriteString("\n")
		b.WriteString(typingStyle.Render(fmt.Sprintf("%s yozmoqda...", m.peerName)))
	}

	// Wrap content to viewport width so long lines don't overflow
	wrapped := lipgloss.NewStyle().Width(m.viewport.Width()).Render(b.String())
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
	return m
}

// renderMarkdown renders a peer message through glamour, falling back
// to the raw text. Single-line plain text stays inline.
func (m MessageViewModel) renderMarkdown(text string) string {
	if m.renderer == nil || !looksLikeMarkdown(text) {
		return text
	}
	r, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	r = strings.TrimRight(r, "\n ")
	r = strings.TrimLeft(r, "\n")
	return r
}

// looksLikeMarkdown is a cheap gate so ordinary chat lines skip the
// renderer entirely.
func looksLikeMarkdown(text string) bool {
	return strings.ContainsAny(text, "*_`#") || strings.Contains(text, "\n")
}

func statusTicks(s domain.Status) string {
	if s == domain.StatusRead {
		return "✓✓"
	}
	return "✓"
}
