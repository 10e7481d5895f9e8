package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/domain"
)

func TestDemoContacts(t *testing.T) {
	contacts := DemoContacts()
	require.NotEmpty(t, contacts)

	selfCount := 0
	for _, c := range contacts {
		if c.SelfChat {
			selfCount++
			assert.False(t, c.BackendSourced, "self-chat is never backend-sourced")
			assert.Empty(t, c.Persona, "self-chat has no persona prompt")
		} else {
			assert.NotEmpty(t, c.Persona, "demo contact %q needs a persona prompt", c.Name)
			assert.Equal(t, domain.KindPersona, c.Kind())
		}
	}
	assert.Equal(t, 1, selfCount, "exactly one self-chat")
	assert.True(t, contacts[0].SelfChat, "self-chat seeds first")
}

func TestSystemInstruction(t *testing.T) {
	got := systemInstruction(domain.Contact{Name: "Toshmat Aka", Persona: "Choyxona haqida gapirasan"})
	assert.Contains(t, got, "Sen Toshmat Akasan.")
	assert.Contains(t, got, "Choyxona haqida gapirasan")
	assert.Contains(t, got, "O'zbek tilida gaplash.")
}

func TestGeminiGenerator_NoKey(t *testing.T) {
	g := NewGeminiGenerator("", "gemini-2.5-flash", zap.NewNop())

	_, err := g.Reply(t.Context(), DemoContacts()[1], "salom", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
