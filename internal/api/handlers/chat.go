package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/technova-labs/inductbot/internal/api"
	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/service"
)

type ChatService interface {
	Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error)
	History(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error)
	ListSessions(ctx context.Context, input service.ListSessionsInput) (*service.ChatSessionPage, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Reset(ctx context.Context) error
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type AskRequest struct {
	Question   string `json:"question"`
	SessionID  string `json:"session_id"`
	AnswerMode string `json:"answer_mode"`
}

type AskResponse struct {
	Answer     string  `json:"answer"`
	MatchType  string  `json:"match_type"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category,omitempty"`
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
}

type ChatMessageResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	Role       string  `json:"role"`
	Message    string  `json:"message"`
	MatchType  string  `json:"match_type,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Category   string  `json:"category,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func chatMessageToResponse(m *domain.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:         m.ID,
		SessionID:  m.SessionID,
		Role:       string(m.Role),
		Message:    m.Message,
		MatchType:  string(m.MatchType),
		Confidence: m.Confidence,
		Category:   m.Category,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	out, err := h.svc.Ask(r.Context(), service.AskInput{
		Question:   req.Question,
		SessionID:  req.SessionID,
		AnswerMode: req.AnswerMode,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &AskResponse{
		Answer:     out.Answer,
		MatchType:  string(out.MatchType),
		Confidence: out.Confidence,
		Category:   out.Category,
		SessionID:  out.SessionID,
		Timestamp:  out.Timestamp.Format(time.RFC3339),
	})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		api.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	messages, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, chatMessageToResponse(m))
	}
	api.Success(w, http.StatusOK, out)
}

type SessionSummaryResponse struct {
	SessionID    string `json:"session_id"`
	MessageCount int    `json:"message_count"`
	StartedAt    string `json:"started_at"`
	LastActivity string `json:"last_activity"`
}

type SessionListResponse struct {
	Sessions []SessionSummaryResponse `json:"sessions"`
	Cursor   string                   `json:"cursor,omitempty"`
	HasMore  bool                     `json:"has_more"`
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	page, err := h.svc.ListSessions(r.Context(), service.ListSessionsInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := SessionListResponse{
		Sessions: make([]SessionSummaryResponse, 0, len(page.Sessions)),
		Cursor:   page.NextCursor,
		HasMore:  page.HasMore,
	}
	for _, s := range page.Sessions {
		out.Sessions = append(out.Sessions, SessionSummaryResponse{
			SessionID:    s.SessionID,
			MessageCount: s.MessageCount,
			StartedAt:    s.StartedAt.Format(time.RFC3339),
			LastActivity: s.LastActivity.Format(time.RFC3339),
		})
	}
	api.Success(w, http.StatusOK, out)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		api.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.svc.DeleteSession(r.Context(), sessionID); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "reset"})
}
