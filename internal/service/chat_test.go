package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/technova-labs/inductbot/internal/domain"
	"github.com/technova-labs/inductbot/internal/match"
	"github.com/technova-labs/inductbot/internal/pagination"
)

// MockChatRepository is a mock implementation of ChatRepositoryInterface
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) ListSessionsWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*ChatSessionPage, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChatSessionPage), args.Error(1)
}

func (m *MockChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockChatRepository) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRefiner is a mock implementation of AnswerRefiner
type MockRefiner struct {
	mock.Mock
}

func (m *MockRefiner) Refine(ctx context.Context, question, answer string) (string, error) {
	args := m.Called(ctx, question, answer)
	return args.String(0), args.Error(1)
}

// stubSnapshot serves a fixed snapshot without touching storage.
type stubSnapshot struct {
	snap    *domain.Snapshot
	reloads int
}

func (s *stubSnapshot) Reload(ctx context.Context) error {
	s.reloads++
	return nil
}

func (s *stubSnapshot) Current() *domain.Snapshot { return s.snap }

// seqUUIDGen hands out deterministic IDs in sequence.
type seqUUIDGen struct {
	n int
}

func (g *seqUUIDGen) NewString() string {
	g.n++
	return fmt.Sprintf("uuid-%d", g.n)
}

func chatSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Categories: []domain.Category{
			{
				Name:    "leave_policy",
				Enabled: true,
				Items: []domain.KnowledgeItem{
					{ID: "leave-1", Question: "How many days of annual leave do I get?", Answer: "You get 25 days of annual leave per year."},
				},
			},
			{
				Name:    "it_support",
				Enabled: true,
				Items: []domain.KnowledgeItem{
					{ID: "it-1", Question: "Who do I contact for IT support?", Answer: "Raise a ticket at the helpdesk."},
				},
			},
		},
	}
}

func newChatService(repo ChatRepositoryInterface, snap *domain.Snapshot, refiner AnswerRefiner) *ChatService {
	return NewChatServiceWithUUIDGen(repo, &stubSnapshot{snap: snap}, match.NewMatcher(match.DefaultConfig()), refiner, &seqUUIDGen{})
}

func TestChatService_Ask_ExactMatchPersistsBothSides(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	var persisted []*domain.ChatMessage
	repo.On("CreateMessage", mock.Anything, mock.AnythingOfType("*domain.ChatMessage")).
		Run(func(args mock.Arguments) {
			persisted = append(persisted, args.Get(1).(*domain.ChatMessage))
		}).Return(nil)

	out, err := svc.Ask(context.Background(), AskInput{
		Question:  "How many days of annual leave do I get?",
		SessionID: "sess-42",
	})

	require.NoError(t, err)
	assert.Equal(t, "You get 25 days of annual leave per year.", out.Answer)
	assert.Equal(t, domain.MatchTypeExact, out.MatchType)
	assert.Equal(t, 1.0, out.Confidence)
	assert.Equal(t, "leave_policy", out.Category)
	assert.Equal(t, "sess-42", out.SessionID)

	require.Len(t, persisted, 2)
	assert.Equal(t, domain.ChatRoleUser, persisted[0].Role)
	assert.Equal(t, "How many days of annual leave do I get?", persisted[0].Message)
	assert.Equal(t, domain.ChatRoleAssistant, persisted[1].Role)
	assert.Equal(t, out.Answer, persisted[1].Message)
	assert.Equal(t, "sess-42", persisted[1].SessionID)
	assert.Equal(t, persisted[0].CreatedAt, persisted[1].CreatedAt)
	repo.AssertExpectations(t)
}

func TestChatService_Ask_GeneratesSessionID(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Ask(context.Background(), AskInput{Question: "How many days of annual leave do I get?"})

	require.NoError(t, err)
	assert.Equal(t, "uuid-1", out.SessionID)
}

func TestChatService_Ask_EmptyQuestion(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	_, err := svc.Ask(context.Background(), AskInput{Question: "   "})

	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestChatService_Ask_NoMatchReturnsFallback(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Ask(context.Background(), AskInput{Question: "quantum flux capacitor maintenance"})

	require.NoError(t, err)
	assert.Equal(t, match.DefaultFallback, out.Answer)
	assert.Equal(t, domain.MatchTypeNone, out.MatchType)
}

func TestChatService_Ask_FuzzyMatchRefined(t *testing.T) {
	repo := new(MockChatRepository)
	refiner := new(MockRefiner)
	svc := newChatService(repo, chatSnapshot(), refiner)

	var persisted []*domain.ChatMessage
	repo.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = append(persisted, args.Get(1).(*domain.ChatMessage))
		}).Return(nil)
	refiner.On("Refine", mock.Anything, "How do I contact IT support?", "Raise a ticket at the helpdesk.").
		Return("You can raise a ticket at the helpdesk any time.", nil)

	out, err := svc.Ask(context.Background(), AskInput{Question: "How do I contact IT support?"})

	require.NoError(t, err)
	assert.Equal(t, domain.MatchTypeFuzzy, out.MatchType)
	assert.Equal(t, "You can raise a ticket at the helpdesk any time.", out.Answer)
	require.Len(t, persisted, 2)
	assert.Equal(t, out.Answer, persisted[1].Message)
	refiner.AssertExpectations(t)
}

func TestChatService_Ask_RefinerFailureKeepsDeterministicAnswer(t *testing.T) {
	repo := new(MockChatRepository)
	refiner := new(MockRefiner)
	svc := newChatService(repo, chatSnapshot(), refiner)

	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	refiner.On("Refine", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	out, err := svc.Ask(context.Background(), AskInput{Question: "How do I contact IT support?"})

	require.NoError(t, err)
	assert.Equal(t, "Raise a ticket at the helpdesk.", out.Answer)
}

func TestChatService_Ask_RefinerSkippedOnExactMatch(t *testing.T) {
	repo := new(MockChatRepository)
	refiner := new(MockRefiner)
	svc := newChatService(repo, chatSnapshot(), refiner)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Ask(context.Background(), AskInput{Question: "How many days of annual leave do I get?"})

	require.NoError(t, err)
	refiner.AssertNotCalled(t, "Refine", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatService_Ask_DisabledTopicMessage(t *testing.T) {
	repo := new(MockChatRepository)
	snap := chatSnapshot()
	snap.Categories[1].Enabled = false
	snap.Categories[1].DisabledMessage = "IT questions are handled in person during week one."
	svc := newChatService(repo, snap, nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Ask(context.Background(), AskInput{Question: "Who do I contact for IT support?"})

	require.NoError(t, err)
	assert.Equal(t, "IT questions are handled in person during week one.", out.Answer)
	assert.Equal(t, domain.MatchTypeNone, out.MatchType)
}

func TestChatService_Ask_PersistenceErrorPropagates(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(errors.New("connection lost"))

	_, err := svc.Ask(context.Background(), AskInput{Question: "How many days of annual leave do I get?"})

	assert.Error(t, err)
}

func TestChatService_History(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	expected := []*domain.ChatMessage{{ID: "m-1", SessionID: "sess-1"}}
	repo.On("ListBySession", mock.Anything, "sess-1").Return(expected, nil)

	messages, err := svc.History(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, expected, messages)

	_, err = svc.History(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestChatService_ListSessions_InvalidCursor(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	_, err := svc.ListSessions(context.Background(), ListSessionsInput{Cursor: "not-base64!!!"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestChatService_ListSessions(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	page := &ChatSessionPage{
		Sessions: []domain.SessionSummary{{SessionID: "sess-1", MessageCount: 4}},
		HasMore:  false,
	}
	repo.On("ListSessionsWithCursor", mock.Anything, (*pagination.Cursor)(nil), 20).Return(page, nil)

	got, err := svc.ListSessions(context.Background(), ListSessionsInput{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestChatService_DeleteSessionAndReset(t *testing.T) {
	repo := new(MockChatRepository)
	svc := newChatService(repo, chatSnapshot(), nil)

	repo.On("DeleteSession", mock.Anything, "sess-1").Return(nil)
	repo.On("Reset", mock.Anything).Return(nil)

	assert.NoError(t, svc.DeleteSession(context.Background(), "sess-1"))
	assert.NoError(t, svc.Reset(context.Background()))
	repo.AssertExpectations(t)
}
