// Package server exposes the backend proxy HTTP surface consumed by
// the TUI: check-session, send-code, login, get-dialogs, send-message.
// Every response uses the {success, error} JSON envelope.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/domain"
	"github.com/mushtum/mushtumgram/internal/telegram"
)

// Fixed user-facing error strings for distinguished login failures.
const (
	secondFactorMsg  = "Sizda 2-bosqichli parol yoqilgan. Iltimos uni o'chiring yoki Demo rejimdan foydalaning."
	invalidCodeMsg   = "Kod noto'g'ri kiritildi."
	noPendingCodeMsg = "Oldin kod so'rang (server qayta yongan bo'lishi mumkin)"
)

// Telegram is the slice of the gotd bridge the HTTP layer needs.
type Telegram interface {
	Authorized(ctx context.Context) (bool, error)
	SendCode(ctx context.Context, phone string, apiID int, apiHash string) error
	SignIn(ctx context.Context, code string) error
	Dialogs(ctx context.Context) ([]domain.Dialog, error)
	Send(ctx context.Context, chatID, text string) error
}

type Server struct {
	Handler http.Handler
	tg      Telegram
	logger  *zap.Logger
}

func New(tg Telegram, logger *zap.Logger) *Server {
	s := &Server{tg: tg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/check-session", s.handleCheckSession)
		r.Post("/send-code", s.handleSendCode)
		r.Post("/login", s.handleLogin)
		r.Get("/get-dialogs", s.handleGetDialogs)
		r.Post("/send-message", s.handleSendMessage)
	})

	s.Handler = r
	return s
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	ok, err := s.tg.Authorized(r.Context())
	if err != nil {
		s.logger.Warn("session check failed", zap.Error(err))
		ok = false
	}
	// Never an error shape: {success:false} simply means "log in again".
	writeJSON(w, http.StatusOK, map[string]any{"success": ok})
}

func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		APIID       int    `json:"apiId"`
		APIHash     string `json:"apiHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Noto'g'ri so'rov")
		return
	}
	if req.PhoneNumber == "" || req.APIID == 0 || req.APIHash == "" {
		writeError(w, http.StatusBadRequest, "Raqam, API ID yoki Hash yetishmayapti")
		return
	}

	s.logger.Info("code requested", zap.String("phone", req.PhoneNumber))
	if err := s.tg.SendCode(r.Context(), req.PhoneNumber, req.APIID, req.APIHash); err != nil {
		s.logger.Error("send code failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Kod Telegramga yuborildi"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Noto'g'ri so'rov")
		return
	}

	err := s.tg.SignIn(r.Context(), req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, telegram.ErrSecondFactor):
		writeError(w, http.StatusUnauthorized, secondFactorMsg)
	case errors.Is(err, telegram.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, invalidCodeMsg)
	case errors.Is(err, telegram.ErrNoPendingCode):
		writeError(w, http.StatusBadRequest, noPendingCodeMsg)
	default:
		s.logger.Error("sign in failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleGetDialogs(w http.ResponseWriter, r *http.Request) {
	chats, err := s.tg.Dialogs(r.Context())
	if err != nil {
		s.logger.Error("dialog listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if chats == nil {
		chats = []domain.Dialog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chats": chats})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID  string `json:"chatId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Noto'g'ri so'rov")
		return
	}
	if req.ChatID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "chatId yoki message yetishmayapti")
		return
	}

	if err := s.tg.Send(r.Context(), req.ChatID, req.Message); err != nil {
		s.logger.Error("send failed", zap.String("chat", req.ChatID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
