package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/technova-labs/inductbot/internal/api"
	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/service"
)

type CategoryService interface {
	ListEnabled(ctx context.Context) []domain.Category
	GetEnabled(ctx context.Context, name string) (*domain.Category, error)
	Suggestions(ctx context.Context) []string
	Replace(ctx context.Context, name string, items []service.ReplaceItemInput) (*domain.Category, error)
	AddItem(ctx context.Context, categoryName string, input service.ReplaceItemInput) (*domain.KnowledgeItem, error)
	DeleteItem(ctx context.Context, categoryName, itemID string) error
	Settings(ctx context.Context) (map[string]domain.CategorySettings, error)
	UpdateSettings(ctx context.Context, updates map[string]domain.CategorySettings) error
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type ItemResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CategoryResponse struct {
	Name       string         `json:"name"`
	Department string         `json:"department"`
	Enabled    bool           `json:"enabled"`
	Items      []ItemResponse `json:"items"`
	UpdatedAt  string         `json:"updated_at"`
}

func categoryToResponse(c *domain.Category) *CategoryResponse {
	out := &CategoryResponse{
		Name:       c.Name,
		Department: c.Department,
		Enabled:    c.Enabled,
		Items:      make([]ItemResponse, 0, len(c.Items)),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, ItemResponse{
			ID:       item.ID,
			Question: item.Question,
			Answer:   item.Answer,
		})
	}
	return out
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := h.svc.ListEnabled(r.Context())
	out := make([]*CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, categoryToResponse(&categories[i]))
	}
	api.Success(w, http.StatusOK, out)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.svc.GetEnabled(r.Context(), name)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, categoryToResponse(category))
}

func (h *CategoryHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := h.svc.Suggestions(r.Context())
	if suggestions == nil {
		suggestions = []string{}
	}
	api.Success(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

type ReplaceCategoryRequest struct {
	Items []ItemRequest `json:"items"`
}

type ItemRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (h *CategoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	var req ReplaceCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.ReplaceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ReplaceItemInput{
			Question: item.Question,
			Answer:   item.Answer,
		})
	}

	category, err := h.svc.Replace(r.Context(), name, items)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, categoryToResponse(category))
}

func (h *CategoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.Answer == "" {
		api.Error(w, http.StatusBadRequest, "answer is required")
		return
	}

	item, err := h.svc.AddItem(r.Context(), name, service.ReplaceItemInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, ItemResponse{
		ID:       item.ID,
		Question: item.Question,
		Answer:   item.Answer,
	})
}

func (h *CategoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	itemID := chi.URLParam(r, "id")
	if name == "" || itemID == "" {
		api.Error(w, http.StatusBadRequest, "name and id are required")
		return
	}

	if err := h.svc.DeleteItem(r.Context(), name, itemID); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type CategorySettingsRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

func (h *CategoryHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make(map[string]CategorySettingsRequest, len(settings))
	for name, s := range settings {
		out[name] = CategorySettingsRequest{Enabled: s.Enabled, Message: s.Message}
	}
	api.Success(w, http.StatusOK, out)
}

func (h *CategoryHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]CategorySettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req) == 0 {
		api.Error(w, http.StatusBadRequest, "no settings provided")
		return
	}

	updates := make(map[string]domain.CategorySettings, len(req))
	for name, s := range req {
		updates[name] = domain.CategorySettings{Enabled: s.Enabled, Message: s.Message}
	}

	if err := h.svc.UpdateSettings(r.Context(), updates); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "updated"})
}
