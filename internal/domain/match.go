package domain

import "strings"

// MatchType classifies how strongly a query matched the knowledge base
type MatchType string

const (
	MatchTypeExact MatchType = "exact"
	MatchTypeFuzzy MatchType = "fuzzy"
	MatchTypeNone  MatchType = "none"
)

// AnswerMode selects the synthesizer's output style in free-text mode
type AnswerMode string

const (
	AnswerModeShort    AnswerMode = "short"
	AnswerModeDetailed AnswerMode = "detailed"
)

// NormalizeAnswerMode coerces arbitrary input to a supported answer mode.
func NormalizeAnswerMode(mode string) AnswerMode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case string(AnswerModeDetailed):
		return AnswerModeDetailed
	default:
		return AnswerModeShort
	}
}

// MatchResult is the outcome of matching one query against a snapshot.
// Confidence is the winning candidate's score (0 when nothing matched);
// callers use it for display only.
type MatchResult struct {
	AnswerText string
	MatchType  MatchType
	Confidence float64
	Category   string
	Item       *KnowledgeItem
	Chunks     []Chunk
}

// Matched reports whether the result carries a usable answer.
func (r *MatchResult) Matched() bool {
	return r != nil && r.MatchType != MatchTypeNone
}

// Snapshot is an immutable view of the knowledge base taken at load time.
// The hosting service holds the single current snapshot and swaps it
// atomically on update; the matching core only ever reads one.
type Snapshot struct {
	Categories []Category
	Document   *Document
	Chunks     []Chunk
}

// EnabledCategories returns the categories eligible for candidate generation,
// preserving registration order. Disabled categories are excluded entirely.
func (s *Snapshot) EnabledCategories() []Category {
	if s == nil {
		return nil
	}
	out := make([]Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// CategoryByName looks up a category by its unique name.
func (s *Snapshot) CategoryByName(name string) (Category, bool) {
	if s == nil {
		return Category{}, false
	}
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
