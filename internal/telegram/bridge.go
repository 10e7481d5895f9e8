// Package telegram wraps gotd/td behind the staged HTTP auth the proxy
// exposes: send-code and login are two separate requests, with the
// phone-code hash held in between. The session is persisted to a file
// so an authorized account survives restarts; callers treat that file
// as opaque.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// ErrSecondFactor is returned by SignIn when the account has a 2FA
// password; the server maps it to the fixed guidance text.
var ErrSecondFactor = errors.New("second factor password enabled")

// ErrInvalidCode is returned by SignIn for a wrong OTP.
var ErrInvalidCode = errors.New("invalid login code")

// ErrNoPendingCode means login was called before send-code (or the
// server restarted in between).
var ErrNoPendingCode = errors.New("no pending code request")

// Bridge owns one gotd client at a time. SendCode tears down any
// previous client and connects with the request's credentials, like
// the proxy contract requires.
type Bridge struct {
	sessionPath string
	logger      *zap.Logger

	mu       sync.Mutex
	client   *telegram.Client
	cancel   context.CancelFunc
	sender   *message.Sender
	api      *tg.Client
	phone    string
	codeHash string

	peerCache map[string]tg.InputPeerClass
}

func NewBridge(sessionPath string, logger *zap.Logger) *Bridge {
	return &Bridge{
		sessionPath: sessionPath,
		logger:      logger,
		peerCache:   make(map[string]tg.InputPeerClass),
	}
}

// Connect starts a background gotd client with the given credentials,
// replacing any previous one. It returns once the client is connected.
func (b *Bridge) Connect(ctx context.Context, apiID int, apiHash string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectLocked(ctx, apiID, apiHash)
}

func (b *Bridge) connectLocked(ctx context.Context, apiID int, apiHash string) error {
	b.closeLocked()

	client := telegram.NewClient(apiID, apiHash, telegram.Options{
		Logger:         b.logger.Named("gotd"),
		SessionStorage: &session.FileStorage{Path: b.sessionPath},
	})

	runCtx, cancel := context.WithCancel(context.Background())
	connected := make(chan struct{})
	errC := make(chan error, 1)

	go func() {
		errC <- client.Run(runCtx, func(ctx context.Context) error {
			close(connected)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-connected:
	case err := <-errC:
		cancel()
		return fmt.Errorf("connect: %w", err)
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}

	b.client = client
	b.cancel = cancel
	b.api = client.API()
	b.sender = message.NewSender(b.api)
	return nil
}

// Resume loads a previously persisted session at startup so Authorized
// can report an authenticated account without a fresh send-code. It is
// a no-op when no session file or no credentials exist. A connection
// failure is returned for logging but leaves the bridge usable: the
// next send-code connects from scratch.
func (b *Bridge) Resume(ctx context.Context, apiID int, apiHash string) error {
	if apiID == 0 || apiHash == "" {
		return nil
	}
	if _, err := os.Stat(b.sessionPath); err != nil {
		return nil
	}
	return b.Connect(ctx, apiID, apiHash)
}

// Close stops the running client, if any.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Bridge) closeLocked() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.client = nil
	b.api = nil
	b.sender = nil
}

func (b *Bridge) authClient() (*auth.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil, errors.New("not connected")
	}
	return b.client.Auth(), nil
}

// Authorized reports whether the persisted session belongs to an
// authenticated account. False (not an error) when no client is up.
func (b *Bridge) Authorized(ctx context.Context) (bool, error) {
	a, err := b.authClient()
	if err != nil {
		return false, nil
	}
	status, err := a.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("auth status: %w", err)
	}
	return status.Authorized, nil
}

// SendCode requests an OTP for the phone, connecting with the supplied
// credentials first. The phone-code hash is retained for SignIn.
func (b *Bridge) SendCode(ctx context.Context, phone string, apiID int, apiHash string) error {
	if err := b.Connect(ctx, apiID, apiHash); err != nil {
		return err
	}

	a, err := b.authClient()
	if err != nil {
		return err
	}
	sent, err := a.SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return fmt.Errorf("unexpected sent code type: %T", sent)
	}

	b.mu.Lock()
	b.phone = phone
	b.codeHash = code.PhoneCodeHash
	b.mu.Unlock()
	return nil
}

// SignIn completes the login with the OTP from SendCode.
func (b *Bridge) SignIn(ctx context.Context, code string) error {
	b.mu.Lock()
	phone, hash := b.phone, b.codeHash
	b.mu.Unlock()
	if phone == "" || hash == "" {
		return ErrNoPendingCode
	}

	a, err := b.authClient()
	if err != nil {
		return ErrNoPendingCode
	}
	if _, err := a.SignIn(ctx, phone, code, hash); err != nil {
		if errors.Is(err, auth.ErrPasswordAuthNeeded) {
			return ErrSecondFactor
		}
		if tgerr.Is(err, "PHONE_CODE_INVALID") {
			return ErrInvalidCode
		}
		return fmt.Errorf("sign in: %w", err)
	}
	return nil
}

// Dialogs lists the account's chats in the proxy's wire shape, caching
// each peer for later sends.
func (b *Bridge) Dialogs(ctx context.Context) ([]domain.Dialog, error) {
	b.mu.Lock()
	api := b.api
	b.mu.Unlock()
	if api == nil {
		return nil, errors.New("not connected")
	}

	iter := dialogs.NewQueryBuilder(api).GetDialogs().BatchSize(100).Iter()

	var result []domain.Dialog
	for iter.Next(ctx) {
		elem := iter.Value()

		peerID := peerIDFromInputPeer(elem.Peer)
		if peerID == 0 {
			continue
		}
		id := strconv.FormatInt(peerID, 10)
		b.cachePeer(id, elem.Peer)

		var unread int
		if dlg, ok := elem.Dialog.(*tg.Dialog); ok {
			unread = dlg.UnreadCount
		}
		var lastMsg string
		var date int64
		if msg, ok := elem.Last.(*tg.Message); ok {
			lastMsg = msg.Message
			date = int64(msg.Date)
		}

		result = append(result, domain.Dialog{
			ID:          id,
			Name:        titleFromEntities(elem),
			LastMessage: lastMsg,
			UnreadCount: unread,
			Date:        date,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("iterate dialogs: %w", err)
	}
	return result, nil
}

// Send delivers a text message to a chat previously seen in Dialogs.
func (b *Bridge) Send(ctx context.Context, chatID, text string) error {
	b.mu.Lock()
	sender := b.sender
	peer := b.peerCache[chatID]
	b.mu.Unlock()

	if sender == nil {
		return errors.New("not connected")
	}
	if peer == nil {
		return fmt.Errorf("unknown peer: %s", chatID)
	}
	_, err := sender.To(peer).Text(ctx, text)
	return err
}

func (b *Bridge) cachePeer(id string, peer tg.InputPeerClass) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peerCache[id] = peer
}

// titleFromEntities resolves the chat title from dialog entities.
func titleFromEntities(elem dialogs.Elem) string {
	if elem.Peer == nil {
		return ""
	}
	entities := elem.Entities

	switch p := elem.Dialog.GetPeer().(type) {
	case *tg.PeerUser:
		if u, ok := entities.User(p.UserID); ok {
			return formatUserName(u)
		}
	case *tg.PeerChat:
		if ch, ok := entities.Chat(p.ChatID); ok {
			return ch.Title
		}
	case *tg.PeerChannel:
		if ch, ok := entities.Channel(p.ChannelID); ok {
			return ch.Title
		}
	}
	return ""
}

// peerIDFromInputPeer extracts a numeric peer ID from an InputPeerClass.
func peerIDFromInputPeer(peer tg.InputPeerClass) int64 {
	switch p := peer.(type) {
	case *tg.InputPeerUser:
		return p.UserID
	case *tg.InputPeerChat:
		return p.ChatID
	case *tg.InputPeerChannel:
		return p.ChannelID
	default:
		return 0
	}
}

// formatUserName returns a display name for a user.
func formatUserName(u *tg.User) string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return ""
	}
}
