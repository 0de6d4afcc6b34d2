package handlers

import (
	"context"
	"net/http"

	"github.com/technova-labs/inductbot/internal/api"
	"github.com/technova-labs/inductbot/internal/domain"
)

type AnalyticsService interface {
	Summary(ctx context.Context) (*domain.AnalyticsSummary, error)
}

type AnalyticsHandler struct {
	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type AnalyticsResponse struct {
	TotalSessions       int            `json:"total_sessions"`
	TotalQuestions      int            `json:"total_questions"`
	CategoryCounts      map[string]int `json:"category_counts"`
	DepartmentCounts    map[string]int `json:"department_counts"`
	MostPopularCategory string         `json:"most_popular_category,omitempty"`
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &AnalyticsResponse{
		TotalSessions:       summary.TotalSessions,
		TotalQuestions:      summary.TotalQuestions,
		CategoryCounts:      summary.CategoryCounts,
		DepartmentCounts:    summary.DepartmentCounts,
		MostPopularCategory: summary.MostPopularCategory,
	})
}
