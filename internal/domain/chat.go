package domain

import "time"

// ChatRole distinguishes the two sides of a conversation
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted message in a session. Assistant messages carry
// the match metadata used by analytics.
type ChatMessage struct {
	ID         string
	SessionID  string
	Role       ChatRole
	Message    string
	MatchType  MatchType
	Confidence float64
	Category   string
	CreatedAt  time.Time
}

// SessionSummary is the per-session rollup used by the admin chat listing.
type SessionSummary struct {
	SessionID    string
	MessageCount int
	StartedAt    time.Time
	LastActivity time.Time
}

// AnalyticsSummary aggregates assistant answers across all sessions.
type AnalyticsSummary struct {
	TotalSessions       int
	TotalQuestions      int
	CategoryCounts      map[string]int
	DepartmentCounts    map[string]int
	MostPopularCategory string
}
