package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/domain"
	"github.com/mushtum/mushtumgram/internal/persona"
	"github.com/mushtum/mushtumgram/internal/state"
)

type fakeBackend struct {
	sendErr     error
	sentChats   []string
	sentTexts   []string
	dialogs     []domain.Dialog
	dialogsErr  error
	dialogCalls int
}

func (f *fakeBackend) CheckSession(ctx context.Context) (bool, error) { return false, nil }
func (f *fakeBackend) SendCode(ctx context.Context, phone string) error {
	return nil
}
func (f *fakeBackend) Login(ctx context.Context, code string) error { return nil }
func (f *fakeBackend) GetDialogs(ctx context.Context) ([]domain.Dialog, error) {
	f.dialogCalls++
	return f.dialogs, f.dialogsErr
}
func (f *fakeBackend) SendMessage(ctx context.Context, chatID, text string) error {
	f.sentChats = append(f.sentChats, chatID)
	f.sentTexts = append(f.sentTexts, text)
	return f.sendErr
}

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	history []persona.Turn
	gotText string
}

func (f *fakeGenerator) Reply(ctx context.Context, c domain.Contact, text string, history []persona.Turn) (string, error) {
	f.calls++
	f.gotText = text
	f.history = history
	return f.reply, f.err
}

func newTestEngine(bc *fakeBackend, gen *fakeGenerator) (*Engine, *state.Store) {
	s := state.New(nil)
	s.Seed([]domain.Contact{
		{ID: "saved", Name: "Saved Messages", SelfChat: true},
		{ID: "2", Name: "Toshmat Aka", Persona: "choyxona"},
		{ID: "777", Name: "Ali", BackendSourced: true},
	})
	e := New(s, bc, gen, zap.NewNop())
	e.selfDelay = 0
	return e, s
}

func TestSend_BackendContact(t *testing.T) {
	bc := &fakeBackend{}
	gen := &fakeGenerator{}
	e, s := newTestEngine(bc, gen)

	require.NoError(t, e.Send(t.Context(), "777", "salom"))

	assert.Equal(t, []string{"777"}, bc.sentChats)
	assert.Equal(t, 0, gen.calls, "backend contact never invokes the generator")

	msgs := s.Messages("777")
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.StatusRead, msgs[0].Status, "read after backend ack")
}

func TestSend_BackendFailureKeepsSent(t *testing.T) {
	bc := &fakeBackend{sendErr: &domain.BackendError{Reason: "FLOOD_WAIT"}}
	e, s := newTestEngine(bc, &fakeGenerator{})

	err := e.Send(t.Context(), "777", "salom")
	require.Error(t, err)

	msgs := s.Messages("777")
	require.Len(t, msgs, 1, "no rollback of the append")
	assert.Equal(t, domain.StatusSent, msgs[0].Status, "stays sent on failure")
}

func TestSend_SelfChat(t *testing.T) {
	bc := &fakeBackend{}
	gen := &fakeGenerator{}
	e, s := newTestEngine(bc, gen)

	require.NoError(t, e.Send(t.Context(), "saved", "eslatma"))

	msgs := s.Messages("saved")
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.SenderSelf, msgs[0].Sender)
	assert.Equal(t, domain.StatusRead, msgs[0].Status)
	assert.Empty(t, bc.sentChats, "self-chat never forwards")
	assert.Equal(t, 0, gen.calls, "self-chat never generates a reply")
}

func TestSend_PersonaContact(t *testing.T) {
	bc := &fakeBackend{}
	gen := &fakeGenerator{reply: "Keling, choy damladim!"}
	e, s := newTestEngine(bc, gen)

	// Prior turns so the generator receives role-tagged history.
	e.Send(t.Context(), "2", "Salom")
	gen.reply = "Palov tayyor"
	require.NoError(t, e.Send(t.Context(), "2", "Qachon boraman?"))

	assert.Empty(t, bc.sentChats, "persona contact never hits the backend")
	assert.Equal(t, "Qachon boraman?", gen.gotText)

	// History excludes the message being sent: first self message plus
	// the generated reply to it.
	require.Len(t, gen.history, 2)
	assert.Equal(t, persona.RoleUser, gen.history[0].Role)
	assert.Equal(t, "Salom", gen.history[0].Text)
	assert.Equal(t, persona.RoleModel, gen.history[1].Role)

	msgs := s.Messages("2")
	require.Len(t, msgs, 4)
	last := msgs[len(msgs)-1]
	assert.Equal(t, domain.SenderPeer, last.Sender)
	assert.Equal(t, "Palov tayyor", last.Text)
	for _, m := range msgs {
		if m.Sender == domain.SenderSelf {
			assert.Equal(t, domain.StatusRead, m.Status, "self messages flip to read after the reply")
		}
	}
	assert.False(t, s.Composing("2"), "composing cleared after resolve")
}

func TestSend_PersonaApologyOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	e, s := newTestEngine(&fakeBackend{}, gen)

	require.NoError(t, e.Send(t.Context(), "2", "Salom"), "generation failure never propagates")

	msgs := s.Messages("2")
	require.Len(t, msgs, 2, "exactly one peer message appended")
	assert.Equal(t, persona.ApologyText, msgs[1].Text)
	assert.False(t, s.Composing("2"))
}

func TestSend_PersonaMissingKey(t *testing.T) {
	gen := &fakeGenerator{err: persona.ErrNoAPIKey}
	e, s := newTestEngine(&fakeBackend{}, gen)

	require.NoError(t, e.Send(t.Context(), "2", "Salom"))

	msgs := s.Messages("2")
	require.Len(t, msgs, 2)
	assert.Equal(t, persona.MissingKeyMsg, msgs[1].Text)
}

func TestSend_UnknownContact(t *testing.T) {
	e, _ := newTestEngine(&fakeBackend{}, &fakeGenerator{})
	assert.Error(t, e.Send(t.Context(), "nope", "hi"))
}

func TestRefreshContacts(t *testing.T) {
	bc := &fakeBackend{dialogs: []domain.Dialog{
		{ID: "10", Name: "Ali", LastMessage: "salom", UnreadCount: 1, Date: 1700000000},
		{ID: "11", Name: "", LastMessage: "", UnreadCount: 0},
	}}
	e, s := newTestEngine(bc, &fakeGenerator{})

	require.NoError(t, e.RefreshContacts(t.Context()))

	got := s.Contacts()
	// Locally seeded contacts stay in front; stale backend contact 777
	// is replaced by the fetched dialogs.
	require.Len(t, got, 4)
	assert.True(t, got[0].SelfChat)
	assert.Equal(t, "10", got[2].ID)
	assert.True(t, got[2].BackendSourced)
	assert.Equal(t, "Nomsiz foydalanuvchi", got[3].Name)
}

func TestRefreshContacts_FailureKeepsList(t *testing.T) {
	bc := &fakeBackend{dialogsErr: &domain.BackendError{Reason: "AUTH_KEY_UNREGISTERED"}}
	e, s := newTestEngine(bc, &fakeGenerator{})

	before := s.Contacts()
	err := e.RefreshContacts(t.Context())
	require.Error(t, err)
	assert.Equal(t, before, s.Contacts(), "previous list retained on failure")
}
