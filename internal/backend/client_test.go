package backend_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushtum/mushtumgram/internal/backend"
	"github.com/mushtum/mushtumgram/internal/domain"
)

func TestSendCode_SuccessAndPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/send-code", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, 33172191, "hash")
	require.NoError(t, c.SendCode(t.Context(), "+998901234567"))

	assert.Equal(t, "+998901234567", got["phoneNumber"])
	assert.Equal(t, float64(33172191), got["apiId"])
	assert.Equal(t, "hash", got["apiHash"])
}

func TestSendCode_BackendErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Raqam bloklangan"})
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, 1, "h")
	err := c.SendCode(t.Context(), "+998901234567")

	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Raqam bloklangan", be.Reason)
}

func TestLogin_SecondFactorDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Sizda 2-bosqichli parol yoqilgan. Iltimos uni o'chiring yoki Demo rejimdan foydalaning.",
		})
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, 1, "h")
	err := c.Login(t.Context(), "12345")

	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.True(t, be.SecondFactor)
}

func TestGetDialogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/get-dialogs", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"chats": []map[string]any{
				{"id": "123", "name": "Ali", "lastMessage": "salom", "unreadCount": 2, "date": 1700000000},
			},
		})
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, 1, "h")
	dialogs, err := c.GetDialogs(t.Context())
	require.NoError(t, err)
	require.Len(t, dialogs, 1)
	assert.Equal(t, domain.Dialog{
		ID: "123", Name: "Ali", LastMessage: "salom", UnreadCount: 2, Date: 1700000000,
	}, dialogs[0])
}

func TestCheckSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := backend.NewHTTPClient(srv.URL, 1, "h")
	ok, err := c.CheckSession(t.Context())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := backend.NewHTTPClient(srv.URL, 1, "h")
	err := c.SendMessage(t.Context(), "1", "salom")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendUnreachable))
}
