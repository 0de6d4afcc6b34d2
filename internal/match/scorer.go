package match

// Scoring weights. The overlap ratio is recall-oriented (normalized by query
// size, not candidate size) so a long candidate containing every query token
// still scores well. The exact-substring bonus rewards candidates that quote
// the whole question; the length penalty deweights candidates far longer or
// shorter than the query.
const (
	overlapWeight    = 0.70
	substringBonus   = 0.25
	lengthPenaltyMax = 0.10
)

// Score rates how well a candidate text answers the query, in [0,1].
// 1.0 is returned only for exact normalized-string equality. The score is a
// query-to-candidate relevance, not a symmetric similarity.
func Score(q Query, candidate string) float64 {
	if q.Empty() {
		return 0
	}

	candNorm := Normalize(candidate)
	if candNorm == "" {
		return 0
	}
	if candNorm == q.Norm {
		return 1.0
	}

	candTokens := NewTokenSet(candidate)
	overlap := float64(q.Tokens.Overlap(candTokens)) / float64(len(q.Tokens))

	score := overlapWeight * overlap

	if containsWords(candNorm, q.Norm) {
		score += substringBonus
	}

	score -= lengthPenalty(len(q.Tokens), len(candTokens))

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// lengthPenalty scales with the relative token-count difference between query
// and candidate, capped at lengthPenaltyMax.
func lengthPenalty(queryLen, candLen int) float64 {
	if queryLen == 0 && candLen == 0 {
		return 0
	}
	diff := queryLen - candLen
	if diff < 0 {
		diff = -diff
	}
	denom := queryLen
	if candLen > denom {
		denom = candLen
	}
	return lengthPenaltyMax * float64(diff) / float64(denom)
}

// containsWords reports whether needle appears in haystack on word boundaries.
// Both inputs must already be normalized.
func containsWords(haystack, needle string) bool {
	if needle == "" || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] != needle {
			continue
		}
		if i > 0 && haystack[i-1] != ' ' {
			continue
		}
		if end := i + len(needle); end < len(haystack) && haystack[end] != ' ' {
			continue
		}
		return true
	}
	return false
}
