package service

import (
	"context"
	"strings"
	"time"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// CategoryRepositoryInterface defines the repository interface for category persistence
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	ListWithItems(ctx context.Context) ([]domain.Category, error)
	ReplaceItems(ctx context.Context, categoryName string, items []domain.KnowledgeItem) error
	AddItem(ctx context.Context, item *domain.KnowledgeItem) error
	DeleteItem(ctx context.Context, categoryName, itemID string) error
	NextItemPosition(ctx context.Context, categoryName string) (int, error)
	UpdateSettings(ctx context.Context, name string, settings domain.CategorySettings) error
	Delete(ctx context.Context, name string) error
}

// SnapshotReloader rebuilds the in-memory knowledge base after a mutation.
type SnapshotReloader interface {
	Reload(ctx context.Context) error
	Current() *domain.Snapshot
}

// CategoryService handles curation of the structured knowledge base.
type CategoryService struct {
	repo     CategoryRepositoryInterface
	snapshot SnapshotReloader
	uuidGen  UUIDGenerator
}

func NewCategoryService(repo CategoryRepositoryInterface, snapshot SnapshotReloader) *CategoryService {
	return &CategoryService{
		repo:     repo,
		snapshot: snapshot,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewCategoryServiceWithUUIDGen creates a CategoryService with a custom UUID generator (for testing)
func NewCategoryServiceWithUUIDGen(repo CategoryRepositoryInterface, snapshot SnapshotReloader, uuidGen UUIDGenerator) *CategoryService {
	return &CategoryService{
		repo:     repo,
		snapshot: snapshot,
		uuidGen:  uuidGen,
	}
}

// ListEnabled returns the enabled categories with their items, in
// registration order, straight from the current snapshot.
func (s *CategoryService) ListEnabled(ctx context.Context) []domain.Category {
	return s.snapshot.Current().EnabledCategories()
}

// GetEnabled returns one enabled category by name.
func (s *CategoryService) GetEnabled(ctx context.Context, name string) (*domain.Category, error) {
	cat, ok := s.snapshot.Current().CategoryByName(name)
	if !ok || !cat.Enabled {
		return nil, domain.ErrCategoryNotFound
	}
	return &cat, nil
}

// Suggestions returns starter questions for the chat UI: the leading question
// of each enabled category, capped at six.
func (s *CategoryService) Suggestions(ctx context.Context) []string {
	var out []string
	for _, cat := range s.snapshot.Current().EnabledCategories() {
		for i := range cat.Items {
			if cat.Items[i].Valid() {
				out = append(out, cat.Items[i].Question)
				break
			}
		}
		if len(out) >= 6 {
			break
		}
	}
	return out
}

// ReplaceItemInput is one question/answer pair in a category replacement.
type ReplaceItemInput struct {
	Question string
	Answer   string
}

// Replace upserts a category and swaps in the given item list, preserving the
// submitted order. Reloads the snapshot on success.
func (s *CategoryService) Replace(ctx context.Context, name string, items []ReplaceItemInput) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.Replace", telemetry.SpanAttributes{
		Category: name,
	})
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidCategoryName
	}

	now := time.Now().UTC()
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if err != domain.ErrCategoryNotFound {
			span.SetError(err)
			return nil, err
		}
		categories, err := s.repo.ListWithItems(ctx)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		cat := &domain.Category{
			Name:       name,
			Department: domain.DepartmentFor(name),
			Enabled:    true,
			Position:   len(categories),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, cat); err != nil {
			span.SetError(err)
			return nil, err
		}
		existing = cat
	}

	domainItems := make([]domain.KnowledgeItem, 0, len(items))
	for i, in := range items {
		if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
			return nil, domain.ErrMissingRequiredField
		}
		domainItems = append(domainItems, domain.KnowledgeItem{
			ID:        s.uuidGen.NewString(),
			Category:  name,
			Position:  i,
			Question:  in.Question,
			Answer:    in.Answer,
			CreatedAt: now,
		})
	}

	if err := s.repo.ReplaceItems(ctx, name, domainItems); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.snapshot.Reload(ctx); err != nil {
		span.SetError(err)
		return nil, err
	}

	existing.Items = domainItems
	existing.UpdatedAt = now
	return existing, nil
}

// AddItem appends one question/answer pair to an existing category.
func (s *CategoryService) AddItem(ctx context.Context, categoryName string, input ReplaceItemInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.AddItem", telemetry.SpanAttributes{
		Category: categoryName,
	})
	defer span.End()

	if strings.TrimSpace(input.Question) == "" || strings.TrimSpace(input.Answer) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	if _, err := s.repo.GetByName(ctx, categoryName); err != nil {
		span.SetError(err)
		return nil, err
	}

	position, err := s.repo.NextItemPosition(ctx, categoryName)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	item := &domain.KnowledgeItem{
		ID:        s.uuidGen.NewString(),
		Category:  categoryName,
		Position:  position,
		Question:  input.Question,
		Answer:    input.Answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.snapshot.Reload(ctx); err != nil {
		span.SetError(err)
		return nil, err
	}
	return item, nil
}

// DeleteItem removes one item from a category.
func (s *CategoryService) DeleteItem(ctx context.Context, categoryName, itemID string) error {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.DeleteItem", telemetry.SpanAttributes{
		Category: categoryName,
	})
	defer span.End()

	if err := s.repo.DeleteItem(ctx, categoryName, itemID); err != nil {
		span.SetError(err)
		return err
	}
	return s.snapshot.Reload(ctx)
}

// Settings returns the enabled flag and disabled message for every category.
func (s *CategoryService) Settings(ctx context.Context) (map[string]domain.CategorySettings, error) {
	categories, err := s.repo.ListWithItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.CategorySettings, len(categories))
	for _, c := range categories {
		out[c.Name] = domain.CategorySettings{Enabled: c.Enabled, Message: c.DisabledMessage}
	}
	return out, nil
}

// UpdateSettings applies enable/disable flags (and optional custom disabled
// messages) to the named categories in one pass.
func (s *CategoryService) UpdateSettings(ctx context.Context, updates map[string]domain.CategorySettings) error {
	ctx, span := telemetry.StartSpan(ctx, "CategoryService.UpdateSettings", telemetry.SpanAttributes{})
	defer span.End()

	for name, settings := range updates {
		if err := s.repo.UpdateSettings(ctx, name, settings); err != nil {
			span.SetError(err)
			return err
		}
	}
	return s.snapshot.Reload(ctx)
}
