package persona

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// ErrNoAPIKey means the generator was built without credentials. The
// engine substitutes MissingKeyMsg instead of surfacing it.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Role tags one side of the conversation history.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged entry of prior history passed to the model.
type Turn struct {
	Role Role
	Text string
}

// Generator produces a persona's reply to the user's message given the
// prior transcript. Implementations own any per-contact session state;
// callers only pass history.
type Generator interface {
	Reply(ctx context.Context, contact domain.Contact, text string, history []Turn) (string, error)
}

// GeminiGenerator talks to the Gemini API, keeping one chat session
// per contact so a persona carries its own conversation thread.
type GeminiGenerator struct {
	apiKey string
	model  string
	logger *zap.Logger

	mu       sync.Mutex
	client   *genai.Client
	sessions map[string]*genai.Chat
}

func NewGeminiGenerator(apiKey, model string, logger *zap.Logger) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey:   apiKey,
		model:    model,
		logger:   logger,
		sessions: make(map[string]*genai.Chat),
	}
}

// systemInstruction builds the persona prompt the same way for every
// contact: name, character prompt, short Telegram-style Uzbek replies.
func systemInstruction(contact domain.Contact) string {
	return fmt.Sprintf(
		"Sen %ssan. %s. Javoblaring qisqa va Telegram uslubida bo'lsin. O'zbek tilida gaplash.",
		contact.Name, contact.Persona,
	)
}

// Reply sends the user's message on the contact's chat session,
// creating the session from the supplied history on first use.
func (g *GeminiGenerator) Reply(ctx context.Context, contact domain.Contact, text string, history []Turn) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoAPIKey
	}

	chat, err := g.session(ctx, contact, history)
	if err != nil {
		return "", err
	}

	res, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		g.logger.Warn("gemini reply failed",
			zap.String("contact", contact.ID), zap.Error(err))
		return "", fmt.Errorf("generate reply: %w", err)
	}

	reply := res.Text()
	if reply == "" {
		reply = "..."
	}
	return reply, nil
}

func (g *GeminiGenerator) session(ctx context.Context, contact domain.Contact, history []Turn) (*genai.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chat, ok := g.sessions[contact.ID]; ok {
		return chat, nil
	}

	if g.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		g.client = client
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(contact)}},
		},
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(t.Role)))
	}

	chat, err := g.client.Chats.Create(ctx, g.model, cfg, contents)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	g.sessions[contact.ID] = chat
	return chat, nil
}
