package telegram

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResumeWithoutSessionFile(t *testing.T) {
	b := NewBridge(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())

	require.NoError(t, b.Resume(t.Context(), 12345, "hash"))

	// No session to load, so no client comes up and Authorized
	// reports false without error.
	ok, err := b.Authorized(t.Context())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResumeWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Version":1}`), 0600))

	b := NewBridge(path, zap.NewNop())

	require.NoError(t, b.Resume(t.Context(), 0, ""))

	ok, err := b.Authorized(t.Context())
	require.NoError(t, err)
	require.False(t, ok)
}
