// Package engine dispatches outgoing messages by contact kind and
// reconciles the contact list with the backend's dialog list. It is
// the only writer of the state store besides the login promotion.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/backend"
	"github.com/mushtum/mushtumgram/internal/domain"
	"github.com/mushtum/mushtumgram/internal/persona"
	"github.com/mushtum/mushtumgram/internal/state"
)

// selfReadDelay is the cosmetic pause before a self-chat message is
// shown as read.
const selfReadDelay = 300 * time.Millisecond

type Engine struct {
	store   *state.Store
	backend backend.Client
	gen     persona.Generator
	logger  *zap.Logger

	// overridable in tests
	selfDelay time.Duration
}

// New wires the engine. backend may be nil in demo mode (no contact is
// backend-sourced then); gen may be nil in real mode (personas are not
// seeded there).
func New(store *state.Store, bc backend.Client, gen persona.Generator, logger *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		backend:   bc,
		gen:       gen,
		logger:    logger,
		selfDelay: selfReadDelay,
	}
}

// Send appends the outgoing message and runs the kind-specific branch
// to completion. The UI calls it from a command goroutine, so blocking
// here keeps per-chat ordering without freezing the interface. The
// returned error is only ever a backend send failure; the message
// stays appended in sent status in that case.
func (e *Engine) Send(ctx context.Context, chatID, text string) error {
	contact, ok := e.store.Contact(chatID)
	if !ok {
		return fmt.Errorf("unknown contact: %s", chatID)
	}

	// History snapshot before the append, so the generator sees only
	// prior turns and receives the new text as the message itself.
	history := roleHistory(e.store.Messages(chatID))

	msg := e.store.RecordOutgoing(chatID, text)

	switch contact.Kind() {
	case domain.KindBackend:
		if err := e.backend.SendMessage(ctx, chatID, text); err != nil {
			e.logger.Error("send via backend failed",
				zap.String("chat", chatID), zap.Error(err))
			return err
		}
		e.store.MarkMessageRead(chatID, msg.ID)
		return nil

	case domain.KindSelf:
		time.Sleep(e.selfDelay)
		e.store.MarkMessageRead(chatID, msg.ID)
		return nil

	default: // persona
		e.store.SetComposing(chatID, true)
		reply, err := e.gen.Reply(ctx, contact, text, history)
		if err != nil {
			if errors.Is(err, persona.ErrNoAPIKey) {
				reply = persona.MissingKeyMsg
			} else {
				e.logger.Warn("reply generation failed",
					zap.String("chat", chatID), zap.Error(err))
				reply = persona.ApologyText
			}
		}
		e.store.SetComposing(chatID, false)
		e.store.RecordIncoming(chatID, reply)
		return nil
	}
}

// RefreshContacts pulls the dialog list from the backend and installs
// it behind the locally seeded contacts. On failure the previous list
// is left untouched and the error is returned for a manual retry.
func (e *Engine) RefreshContacts(ctx context.Context) error {
	dialogs, err := e.backend.GetDialogs(ctx)
	if err != nil {
		e.logger.Warn("dialog fetch failed", zap.Error(err))
		return fmt.Errorf("fetch dialogs: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(dialogs))
	for _, d := range dialogs {
		name := d.Name
		if name == "" {
			name = "Nomsiz foydalanuvchi"
		}
		contacts = append(contacts, domain.Contact{
			ID:             d.ID,
			Name:           name,
			Avatar:         fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", name),
			LastMessage:    d.LastMessage,
			LastTime:       formatDialogTime(d.Date),
			UnreadCount:    d.UnreadCount,
			BackendSourced: true,
		})
	}
	e.store.ReplaceDialogs(contacts)
	return nil
}

func formatDialogTime(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).Format("15:04")
}

// roleHistory maps a transcript to generator turns: self messages as
// the user role, peer messages as the model role.
func roleHistory(msgs []domain.Message) []persona.Turn {
	turns := make([]persona.Turn, 0, len(msgs))
	for _, m := range msgs {
		role := persona.RoleUser
		if m.Sender == domain.SenderPeer {
			role = persona.RoleModel
		}
		turns = append(turns, persona.Turn{Role: role, Text: m.Text})
	}
	return turns
}
