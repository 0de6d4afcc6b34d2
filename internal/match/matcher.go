package match

import (
	"sort"

	"github.com/technova-labs/inductbot/internal/domain"
)

// Config holds the tunable thresholds of the matcher. The defaults were
// validated against representative induction Q/A pairs; deployments can
// override them through service configuration.
type Config struct {
	// ExactThreshold is the minimum score classified as an exact match.
	ExactThreshold float64
	// FuzzyThreshold is the minimum score classified as a fuzzy match;
	// anything below it is treated as no match at all.
	FuzzyThreshold float64
	// TopChunks is how many chunks survive ranking in free-text mode.
	TopChunks int
	// Fallback is the answer text returned when nothing matched.
	Fallback string
}

// DefaultFallback is returned verbatim when no candidate clears the fuzzy
// threshold.
const DefaultFallback = "Sorry, I don't have this information. Please contact HR."

// DefaultConfig provides the tuned matcher defaults.
func DefaultConfig() Config {
	return Config{
		ExactThreshold: 0.85,
		FuzzyThreshold: 0.35,
		TopChunks:      3,
		Fallback:       DefaultFallback,
	}
}

// Matcher ranks knowledge-base candidates against a query. It is stateless:
// every call is an independent transformation of (snapshot, query) into a
// MatchResult, safe for concurrent use.
type Matcher struct {
	cfg Config
}

// NewMatcher creates a Matcher, filling in defaults for zero values.
func NewMatcher(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.ExactThreshold <= 0 || cfg.ExactThreshold > 1 {
		cfg.ExactThreshold = def.ExactThreshold
	}
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > cfg.ExactThreshold {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if cfg.TopChunks <= 0 {
		cfg.TopChunks = def.TopChunks
	}
	if cfg.Fallback == "" {
		cfg.Fallback = def.Fallback
	}
	return &Matcher{cfg: cfg}
}

// Config returns the effective matcher configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

func (m *Matcher) noMatch() domain.MatchResult {
	return domain.MatchResult{
		AnswerText: m.cfg.Fallback,
		MatchType:  domain.MatchTypeNone,
		Confidence: 0,
	}
}

// MatchItems runs structured-lookup mode: the query is scored against every
// enabled item's question text and the single best item above the fuzzy
// threshold wins, its answer returned verbatim. Ties resolve to the earliest
// item in the earliest-registered category, so repeated runs always pick the
// same winner. Disabled categories never contribute candidates; items missing
// a question or answer are skipped.
func (m *Matcher) MatchItems(query string, categories []domain.Category) domain.MatchResult {
	q := NewQuery(query)
	if q.Empty() {
		return m.noMatch()
	}

	var (
		best      *domain.KnowledgeItem
		bestCat   string
		bestScore float64
	)
	for ci := range categories {
		cat := &categories[ci]
		if !cat.Enabled {
			continue
		}
		for ii := range cat.Items {
			item := &cat.Items[ii]
			if !item.Valid() {
				continue
			}
			score := Score(q, item.Question)
			if score > bestScore {
				best = item
				bestCat = cat.Name
				bestScore = score
			}
		}
	}

	if best == nil || bestScore < m.cfg.FuzzyThreshold {
		return m.noMatch()
	}

	matchType := domain.MatchTypeFuzzy
	if bestScore >= m.cfg.ExactThreshold {
		matchType = domain.MatchTypeExact
	}

	return domain.MatchResult{
		AnswerText: best.Answer,
		MatchType:  matchType,
		Confidence: bestScore,
		Category:   bestCat,
		Item:       best,
	}
}

// MatchChunks runs free-text mode: every chunk is scored, chunks below the
// fuzzy threshold are discarded, and the top-N survivors (descending score,
// chunk index breaking ties) are synthesized into one answer in the requested
// mode.
func (m *Matcher) MatchChunks(query string, chunks []domain.Chunk, mode domain.AnswerMode) domain.MatchResult {
	q := NewQuery(query)
	if q.Empty() || len(chunks) == 0 {
		return m.noMatch()
	}

	type scored struct {
		chunk domain.Chunk
		score float64
	}
	survivors := make([]scored, 0, m.cfg.TopChunks)
	for _, chunk := range chunks {
		s := Score(q, chunk.Text)
		if s >= m.cfg.FuzzyThreshold {
			survivors = append(survivors, scored{chunk: chunk, score: s})
		}
	}
	if len(survivors) == 0 {
		return m.noMatch()
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].score != survivors[j].score {
			return survivors[i].score > survivors[j].score
		}
		return survivors[i].chunk.Index < survivors[j].chunk.Index
	})
	if len(survivors) > m.cfg.TopChunks {
		survivors = survivors[:m.cfg.TopChunks]
	}

	selected := make([]domain.Chunk, len(survivors))
	for i, s := range survivors {
		selected[i] = s.chunk
	}

	matchType := domain.MatchTypeFuzzy
	if survivors[0].score >= m.cfg.ExactThreshold {
		matchType = domain.MatchTypeExact
	}

	return domain.MatchResult{
		AnswerText: synthesize(q, selected, mode),
		MatchType:  matchType,
		Confidence: survivors[0].score,
		Chunks:     selected,
	}
}

// MatchSnapshot dispatches a query against a knowledge-base snapshot:
// structured lookup when categories exist, falling through to free-text chunk
// retrieval when a ready document is loaded. An empty snapshot is an
// immediate no-match.
func (m *Matcher) MatchSnapshot(query string, snap *domain.Snapshot, mode domain.AnswerMode) domain.MatchResult {
	if snap == nil {
		return m.noMatch()
	}
	if len(snap.Categories) > 0 {
		result := m.MatchItems(query, snap.Categories)
		if result.Matched() || len(snap.Chunks) == 0 {
			return result
		}
	}
	if len(snap.Chunks) > 0 {
		return m.MatchChunks(query, snap.Chunks, mode)
	}
	return m.noMatch()
}
