// Package backend is the TUI-side client for the proxy server's HTTP
// surface: check-session, send-code, login, get-dialogs, send-message.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mushtum/mushtumgram/internal/domain"
)

// Client is the contract the auth flow and conversation engine depend
// on. HTTPClient is the real implementation; tests supply fakes.
type Client interface {
	CheckSession(ctx context.Context) (bool, error)
	SendCode(ctx context.Context, phone string) error
	Login(ctx context.Context, code string) error
	GetDialogs(ctx context.Context) ([]domain.Dialog, error)
	SendMessage(ctx context.Context, chatID, text string) error
}

type HTTPClient struct {
	baseURL string
	apiID   int
	apiHash string
	http    *http.Client
}

func NewHTTPClient(baseURL string, apiID int, apiHash string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiID:   apiID,
		apiHash: apiHash,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiResponse is the common JSON envelope of every proxy endpoint.
type apiResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Chats   []domain.Dialog `json:"chats,omitempty"`
}

// CheckSession reports whether the proxy holds an authenticated
// Telegram session. The endpoint itself never fails; only transport
// errors are returned.
func (c *HTTPClient) CheckSession(ctx context.Context) (bool, error) {
	resp, err := c.get(ctx, "/api/check-session")
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *HTTPClient) SendCode(ctx context.Context, phone string) error {
	resp, err := c.post(ctx, "/api/send-code", map[string]any{
		"phoneNumber": phone,
		"apiId":       c.apiID,
		"apiHash":     c.apiHash,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &domain.BackendError{Reason: resp.Error}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, code string) error {
	resp, err := c.post(ctx, "/api/login", map[string]any{"code": code})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &domain.BackendError{
			Reason:       resp.Error,
			SecondFactor: strings.Contains(resp.Error, "2-bosqichli"),
		}
	}
	return nil
}

func (c *HTTPClient) GetDialogs(ctx context.Context) ([]domain.Dialog, error) {
	resp, err := c.get(ctx, "/api/get-dialogs")
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &domain.BackendError{Reason: resp.Error}
	}
	return resp.Chats, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, chatID, text string) error {
	resp, err := c.post(ctx, "/api/send-message", map[string]any{
		"chatId":  chatID,
		"message": text,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return &domain.BackendError{Reason: resp.Error}
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *HTTPClient) post(ctx context.Context, path string, body map[string]any) (*apiResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do executes the request and decodes the envelope. Transport failures
// wrap ErrBackendUnreachable so the UI can tell "server down" apart
// from a backend-reported reason.
func (c *HTTPClient) do(req *http.Request) (*apiResponse, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer res.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrBackendUnreachable, err)
	}
	return &resp, nil
}
