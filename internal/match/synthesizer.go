package match

import (
	"strings"

	"github.com/technova-labs/inductbot/internal/domain"
)

// maxOverlapScan bounds the suffix/prefix comparison when deduplicating the
// overlap the chunker introduced between consecutive chunks.
const maxOverlapScan = 400

func synthesize(q Query, chunks []domain.Chunk, mode domain.AnswerMode) string {
	if len(chunks) == 0 {
		return ""
	}
	if mode == domain.AnswerModeDetailed {
		return synthesizeDetailed(chunks)
	}
	return synthesizeShort(q, chunks[0])
}

// synthesizeShort returns the one or two sentences of the top chunk that are
// densest in query tokens.
func synthesizeShort(q Query, top domain.Chunk) string {
	sentences := splitSentences(top.Text)
	if len(sentences) == 0 {
		return strings.TrimSpace(top.Text)
	}

	bestIdx := 0
	bestDensity := -1.0
	for i, sentence := range sentences {
		tokens := Tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		matches := 0
		for _, t := range tokens {
			if q.Tokens.Contains(t) {
				matches++
			}
		}
		density := float64(matches) / float64(len(tokens))
		if density > bestDensity {
			bestDensity = density
			bestIdx = i
		}
	}

	answer := sentences[bestIdx]
	// Carry the following sentence when it also touches the query.
	if bestIdx+1 < len(sentences) {
		next := NewTokenSet(sentences[bestIdx+1])
		if q.Tokens.Overlap(next) > 0 {
			answer += " " + sentences[bestIdx+1]
		}
	}
	return strings.TrimSpace(answer)
}

// synthesizeDetailed concatenates the surviving chunks in their ranked order,
// trimming text duplicated by the chunker's overlap window.
func synthesizeDetailed(chunks []domain.Chunk) string {
	var b strings.Builder
	for i, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		if i > 0 {
			text = trimOverlap(b.String(), text)
			if text == "" {
				continue
			}
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String()
}

// trimOverlap removes the longest prefix of next that is also a suffix of
// accumulated, so overlapping chunk boundaries are not repeated verbatim.
func trimOverlap(accumulated, next string) string {
	max := len(next)
	if len(accumulated) < max {
		max = len(accumulated)
	}
	if max > maxOverlapScan {
		max = maxOverlapScan
	}
	for k := max; k > 0; k-- {
		if strings.HasSuffix(accumulated, next[:k]) {
			return strings.TrimSpace(next[k:])
		}
	}
	return next
}

// splitSentences breaks text on terminal punctuation followed by whitespace,
// keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			end := i + 1
			if end < len(text) && !isSpace(rune(text[end])) {
				continue
			}
			sentence := strings.TrimSpace(text[start:end])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
