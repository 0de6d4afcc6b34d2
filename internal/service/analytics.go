package service

import (
	"context"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// AnalyticsRepositoryInterface defines the repository interface for usage aggregation
type AnalyticsRepositoryInterface interface {
	Analytics(ctx context.Context) (*domain.AnalyticsSummary, error)
}

// AnalyticsService reports usage rollups from persisted chat history.
type AnalyticsService struct {
	repo AnalyticsRepositoryInterface
}

func NewAnalyticsService(repo AnalyticsRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Summary aggregates category counts into departments and finds the most
// popular category.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalyticsService.Summary", telemetry.SpanAttributes{})
	defer span.End()

	summary, err := s.repo.Analytics(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	best := ""
	bestCount := 0
	for category, count := range summary.CategoryCounts {
		summary.DepartmentCounts[domain.DepartmentFor(category)] += count
		if count > bestCount || (count == bestCount && best != "" && category < best) {
			best = category
			bestCount = count
		}
	}
	summary.MostPopularCategory = best
	return summary, nil
}
