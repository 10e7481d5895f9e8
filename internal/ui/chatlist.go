package ui

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// contactItem implements list.Item for the contact sidebar.
type contactItem struct {
	id      string
	name    string
	unread  int
	online  bool
	self    bool
	preview string
	when    string
}

func (i contactItem) FilterValue() string { return i.name }

// contactDelegate renders a contactItem in the list.
type contactDelegate struct{}

func (d contactDelegate) Height() int                             { return 2 }
func (d contactDelegate) Spacing() int                            { return 1 }
func (d contactDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d contactDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(contactItem)
	if !ok {
		return
	}

	title := ci.name
	if ci.self {
		title = "📑 " + ci.name
	}
	if ci.unread > 0 {
		title = fmt.Sprintf("%s (%d)", title, ci.unread)
	}

	desc := ci.preview
	if ci.when != "" {
		desc = ci.when + "  " + desc
	}

	isSelected := index == m.Index()
	// Account for the cursor prefix ("  " or "> ") in available width.
	contentWidth := m.Width() - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	titleStyle := lipgloss.NewStyle().MaxWidth(contentWidth).MaxHeight(1)
	descStyle := lipgloss.NewStyle().MaxWidth(contentWidth).MaxHeight(1).Foreground(lipgloss.Color("240"))

	cursor := "  "
	if isSelected {
		cursor = "> "
		titleStyle = titleStyle.Foreground(highlightColor).Bold(true)
		descStyle = descStyle.Foreground(lipgloss.Color("250"))
	}
	if ci.unread > 0 {
		titleStyle = titleStyle.Bold(true)
	}

	marker := ""
	if ci.online && !ci.self {
		marker = onlineStyle.Render(" ●")
	}

	fmt.Fprintf(w, "%s%s%s\n%s%s", cursor, titleStyle.Render(title), marker, "  ", descStyle.Render(desc))
}

// ChatListModel wraps bubbles/list for the contact sidebar.
type ChatListModel struct {
	list    list.Model
	focused bool
	width   int
	height  int
}

func NewChatListModel() ChatListModel {
	l := list.New(nil, contactDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return ChatListModel{list: l}
}

func (m ChatListModel) Update(msg tea.Msg) (ChatListModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		// Only handle enter for selection when not filtering.
		if key.String() == "enter" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(contactItem); ok {
				return m, func() tea.Msg {
					return ChatSelectedMsg{ContactID: item.id}
				}
			}
			return m, nil
		}
	}

	// Delegate all other keys (including j/k and filter '/') to the list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ChatListModel) View() string {
	contentH := m.height - 2
	if contentH < 0 {
		contentH = 0
	}

	content := truncateHeight(m.list.View(), contentH)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.width).
		Height(m.height)
	style = applyBorderColor(style, m.focused)

	return style.Render(content)
}

func (m ChatListModel) WithItems(contacts []domain.Contact) ChatListModel {
	items := make([]list.Item, len(contacts))
	for i, c := range contacts {
		items[i] = contactItem{
			id:      c.ID,
			name:    c.Name,
			unread:  c.UnreadCount,
			online:  c.Online,
			self:    c.SelfChat,
			preview: c.LastMessage,
			when:    c.LastTime,
		}
	}
	m.list.SetItems(items)
	return m
}

func (m ChatListModel) SetSize(w, h int) ChatListModel {
	m.width = w
	m.height = h
	innerW := w - 2
	innerH := h - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	m.list.SetSize(innerW, innerH)
	return m
}

func (m ChatListModel) SetFocused(f bool) ChatListModel {
	m.focused = f
	return m
}
