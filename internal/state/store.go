// Package state owns the contact list, per-chat transcripts, drafts,
// and composing flags. Only the conversation engine and the login
// promotion step write to it; the UI reads snapshots and is poked
// through the drawFunc whenever anything changes.
package state

import (
	"sync"
	"time"

	"github.com/mushtum/mushtumgram/internal/domain"
)

const maxMessages = 500

type Store struct {
	mu          sync.RWMutex
	contacts    []domain.Contact
	transcripts map[string][]domain.Message
	drafts      map[string]string
	composing   map[string]bool
	activeID    string
	lastMsgID   int64
	drawFunc    func()
}

func New(drawFunc func()) *Store {
	return &Store{
		transcripts: make(map[string][]domain.Message),
		drafts:      make(map[string]string),
		composing:   make(map[string]bool),
		drawFunc:    drawFunc,
	}
}

func (s *Store) SetDrawFunc(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawFunc = f
}

func (s *Store) draw() {
	if s.drawFunc != nil {
		s.drawFunc()
	}
}

// Seed installs the initial contact list. The first entry is expected
// to be the self-chat; callers use persona.DemoContacts (demo) or
// persona.SelfChat alone (real mode, pre-refresh).
func (s *Store) Seed(contacts []domain.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append([]domain.Contact(nil), contacts...)
	s.draw()
}

// ReplaceDialogs swaps in backend-sourced contacts while keeping every
// non-backend contact (self-chat, personas) in place ahead of them.
func (s *Store) ReplaceDialogs(dialogs []domain.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.contacts[:0:0]
	for _, c := range s.contacts {
		if !c.BackendSourced {
			kept = append(kept, c)
		}
	}
	s.contacts = append(kept, dialogs...)
	s.draw()
}

// SelectContact makes the contact active and clears its unread count.
// Selecting never fetches history; transcripts are session-local.
func (s *Store) SelectContact(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = id
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].UnreadCount = 0
			break
		}
	}
	s.draw()
}

func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Contact returns the contact by ID and whether it exists.
func (s *Store) Contact(id string) (domain.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Contact{}, false
}

func (s *Store) Contacts() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

func (s *Store) Messages(chatID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.transcripts[chatID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

// RecordOutgoing appends a self message with status sent, clears the
// chat's draft, updates the contact preview, and moves the contact to
// the front of the list.
func (s *Store) RecordOutgoing(chatID, text string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:     s.nextMsgID(),
		Text:   text,
		Sender: domain.SenderSelf,
		Time:   time.Now(),
		Status: domain.StatusSent,
	}
	s.appendLocked(chatID, msg)
	delete(s.drafts, chatID)
	s.updatePreviewLocked(chatID, text, msg.Time)
	s.moveToFrontLocked(chatID)
	s.draw()
	return msg
}

// RecordIncoming appends a peer message with status read, flips any of
// our still-sent messages in the chat to read, updates the preview,
// and moves the contact to the front. Unread bumps only if the chat is
// not active.
func (s *Store) RecordIncoming(chatID, text string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.transcripts[chatID]
	for i := range msgs {
		if msgs[i].Sender == domain.SenderSelf && msgs[i].Status == domain.StatusSent {
			msgs[i].Status = domain.StatusRead
		}
	}

	msg := domain.Message{
		ID:     s.nextMsgID(),
		Text:   text,
		Sender: domain.SenderPeer,
		Time:   time.Now(),
		Status: domain.StatusRead,
	}
	s.appendLocked(chatID, msg)
	s.updatePreviewLocked(chatID, text, msg.Time)
	if chatID != s.activeID {
		for i := range s.contacts {
			if s.contacts[i].ID == chatID {
				s.contacts[i].UnreadCount++
				break
			}
		}
	}
	s.moveToFrontLocked(chatID)
	s.draw()
	return msg
}

// MarkMessageRead flips one of our messages from sent to read. The
// transition is one-directional; read messages are left alone.
func (s *Store) MarkMessageRead(chatID string, msgID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.transcripts[chatID]
	for i := range msgs {
		if msgs[i].ID == msgID && msgs[i].Status == domain.StatusSent {
			msgs[i].Status = domain.StatusRead
			s.draw()
			return
		}
	}
}

// SetComposing toggles the "peer is typing" indicator for a chat.
func (s *Store) SetComposing(chatID string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.composing[chatID] = true
	} else {
		delete(s.composing, chatID)
	}
	s.draw()
}

func (s *Store) Composing(chatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.composing[chatID]
}

// SetDraft stores the unsent input for a chat. Drafts survive
// switching the active chat.
func (s *Store) SetDraft(chatID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == "" {
		delete(s.drafts, chatID)
		return
	}
	s.drafts[chatID] = text
}

func (s *Store) Draft(chatID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[chatID]
}

// nextMsgID returns a strictly increasing message ID. Seeded from the
// wall clock so IDs roughly track creation time.
func (s *Store) nextMsgID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastMsgID {
		id = s.lastMsgID + 1
	}
	s.lastMsgID = id
	return id
}

func (s *Store) appendLocked(chatID string, msg domain.Message) {
	msgs := append(s.transcripts[chatID], msg)
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	s.transcripts[chatID] = msgs
}

func (s *Store) updatePreviewLocked(chatID, text string, at time.Time) {
	for i := range s.contacts {
		if s.contacts[i].ID == chatID {
			s.contacts[i].LastMessage = text
			s.contacts[i].LastTime = at.Format("15:04")
			return
		}
	}
}

// moveToFrontLocked is a stable move-to-front: the mutated contact
// becomes first and everyone else keeps their relative order. The
// self-chat participates like any other contact.
func (s *Store) moveToFrontLocked(chatID string) {
	idx := -1
	for i := range s.contacts {
		if s.contacts[i].ID == chatID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return
	}
	c := s.contacts[idx]
	copy(s.contacts[1:idx+1], s.contacts[:idx])
	s.contacts[0] = c
}
