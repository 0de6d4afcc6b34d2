package service

import (
	"context"
	"strings"
	"time"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/match"
	"github.com/technova-labs/inductbot/internal/pagination"
	"github.com/technova-labs/inductbot/internal/telemetry"
)

// ChatRepositoryInterface defines the repository interface for chat persistence
type ChatRepositoryInterface interface {
	CreateMessage(ctx context.Context, m *domain.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error)
	ListSessionsWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*ChatSessionPage, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Reset(ctx context.Context) error
}

// ChatSessionPage is one page of the admin session listing.
type ChatSessionPage struct {
	Sessions   []domain.SessionSummary
	NextCursor string
	HasMore    bool
}

// AnswerRefiner optionally rewrites a fuzzy-match answer into a more
// conversational one. Implementations must be best-effort: any error means the
// caller keeps the deterministic answer.
type AnswerRefiner interface {
	Refine(ctx context.Context, question, answer string) (string, error)
}

// ChatService answers questions against the current snapshot and persists
// both sides of every exchange.
type ChatService struct {
	repo     ChatRepositoryInterface
	snapshot SnapshotReloader
	matcher  *match.Matcher
	refiner  AnswerRefiner
	uuidGen  UUIDGenerator
}

func NewChatService(repo ChatRepositoryInterface, snapshot SnapshotReloader, matcher *match.Matcher, refiner AnswerRefiner) *ChatService {
	return &ChatService{
		repo:     repo,
		snapshot: snapshot,
		matcher:  matcher,
		refiner:  refiner,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewChatServiceWithUUIDGen creates a ChatService with a custom UUID generator (for testing)
func NewChatServiceWithUUIDGen(repo ChatRepositoryInterface, snapshot SnapshotReloader, matcher *match.Matcher, refiner AnswerRefiner, uuidGen UUIDGenerator) *ChatService {
	return &ChatService{
		repo:     repo,
		snapshot: snapshot,
		matcher:  matcher,
		refiner:  refiner,
		uuidGen:  uuidGen,
	}
}

// AskInput is one chat turn from a client.
type AskInput struct {
	Question   string
	SessionID  string
	AnswerMode string
}

// AskOutput is the service's answer to one chat turn.
type AskOutput struct {
	Answer     string
	MatchType  domain.MatchType
	Confidence float64
	Category   string
	SessionID  string
	Timestamp  time.Time
}

// Ask matches a question against the current snapshot, persists the exchange
// and returns the answer. A question landing on a disabled category gets that
// category's custom message instead of an answer.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domain.ErrMissingRequiredField
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		sessionID = s.uuidGen.NewString()
	}

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Ask", telemetry.SpanAttributes{
		SessionID: sessionID,
	})
	defer span.End()

	snap := s.snapshot.Current()
	mode := domain.NormalizeAnswerMode(input.AnswerMode)
	result := s.matcher.MatchSnapshot(question, snap, mode)

	if !result.Matched() {
		if msg, ok := s.disabledTopicMessage(question, snap); ok {
			result.AnswerText = msg
		}
	}

	if result.MatchType == domain.MatchTypeFuzzy && s.refiner != nil {
		if refined, err := s.refiner.Refine(ctx, question, result.AnswerText); err == nil && strings.TrimSpace(refined) != "" {
			result.AnswerText = refined
		} else if err != nil {
			telemetry.AddBreadcrumb(ctx, "llm", "refinement failed, keeping deterministic answer")
		}
	}

	now := time.Now().UTC()
	userMsg := &domain.ChatMessage{
		ID:        s.uuidGen.NewString(),
		SessionID: sessionID,
		Role:      domain.ChatRoleUser,
		Message:   question,
		CreatedAt: now,
	}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		span.SetError(err)
		return nil, err
	}

	assistantMsg := &domain.ChatMessage{
		ID:         s.uuidGen.NewString(),
		SessionID:  sessionID,
		Role:       domain.ChatRoleAssistant,
		Message:    result.AnswerText,
		MatchType:  result.MatchType,
		Confidence: result.Confidence,
		Category:   result.Category,
		CreatedAt:  now,
	}
	if err := s.repo.CreateMessage(ctx, assistantMsg); err != nil {
		span.SetError(err)
		return nil, err
	}

	return &AskOutput{
		Answer:     result.AnswerText,
		MatchType:  result.MatchType,
		Confidence: result.Confidence,
		Category:   result.Category,
		SessionID:  sessionID,
		Timestamp:  now,
	}, nil
}

// disabledTopicMessage probes the disabled categories with the same matcher.
// If the question would have matched one, its custom message (when set) is
// returned so the user learns the topic exists but is switched off.
func (s *ChatService) disabledTopicMessage(question string, snap *domain.Snapshot) (string, bool) {
	if snap == nil {
		return "", false
	}
	var disabled []domain.Category
	for _, c := range snap.Categories {
		if !c.Enabled && c.DisabledMessage != "" {
			probe := c
			probe.Enabled = true
			disabled = append(disabled, probe)
		}
	}
	if len(disabled) == 0 {
		return "", false
	}
	result := s.matcher.MatchItems(question, disabled)
	if !result.Matched() {
		return "", false
	}
	cat, ok := snap.CategoryByName(result.Category)
	if !ok {
		return "", false
	}
	return cat.DisabledMessage, true
}

// History returns a session's messages in chronological order.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ErrMissingRequiredField
	}
	return s.repo.ListBySession(ctx, sessionID)
}

// ListSessionsInput pages the admin session listing.
type ListSessionsInput struct {
	Cursor string
	Limit  int
}

// ListSessions returns one page of session rollups, newest activity first.
func (s *ChatService) ListSessions(ctx context.Context, input ListSessionsInput) (*ChatSessionPage, error) {
	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}
	return s.repo.ListSessionsWithCursor(ctx, cursor, input.Limit)
}

// DeleteSession removes one session's history.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.DeleteSession", telemetry.SpanAttributes{
		SessionID: sessionID,
	})
	defer span.End()

	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// Reset wipes all chat history.
func (s *ChatService) Reset(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Reset", telemetry.SpanAttributes{})
	defer span.End()

	if err := s.repo.Reset(ctx); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}
