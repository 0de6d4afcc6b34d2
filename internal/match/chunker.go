package match

import (
	"github.com/technova-labs/inductbot/internal/domain"
)

// ChunkerConfig controls how documents are split into retrieval units.
type ChunkerConfig struct {
	// TargetWords is the approximate chunk length in words.
	TargetWords int
	// OverlapWords is repeated between consecutive chunks so context at
	// chunk boundaries is not lost.
	OverlapWords int
	// SentenceTolerance is how many words before the target boundary the
	// chunker may cut early to end on a sentence.
	SentenceTolerance int
	// MaxChunks caps runaway documents.
	MaxChunks int
}

// DefaultChunkerConfig provides sane defaults for chunking.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		TargetWords:       120,
		OverlapWords:      20,
		SentenceTolerance: 15,
		MaxChunks:         400,
	}
}

// Chunker splits document text into overlapping word windows, preferring
// sentence boundaries near the window edge. Splitting is deterministic:
// re-chunking the same text with the same config yields an identical chunk
// set, and the chunk spans cover the input with no gaps.
type Chunker struct {
	cfg ChunkerConfig
}

// NewChunker creates a Chunker, sanitizing degenerate configuration.
func NewChunker(cfg ChunkerConfig) *Chunker {
	if cfg.TargetWords <= 0 {
		cfg = DefaultChunkerConfig()
	}
	if cfg.OverlapWords < 0 {
		cfg.OverlapWords = 0
	}
	if cfg.OverlapWords >= cfg.TargetWords {
		cfg.OverlapWords = cfg.TargetWords / 4
	}
	if cfg.SentenceTolerance < 0 {
		cfg.SentenceTolerance = 0
	}
	return &Chunker{cfg: cfg}
}

// wordSpan records the byte range of one whitespace-delimited word.
type wordSpan struct {
	start int
	end   int
}

func splitWords(text string) []wordSpan {
	spans := make([]wordSpan, 0, len(text)/6)
	start := -1
	for i, r := range text {
		if isSpace(r) {
			if start >= 0 {
				spans = append(spans, wordSpan{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, wordSpan{start: start, end: len(text)})
	}
	return spans
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func endsSentence(text string, w wordSpan) bool {
	if w.end <= w.start {
		return false
	}
	switch text[w.end-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// Split breaks text into chunks. Chunk IDs are left empty for the caller to
// assign; Index and SourceOffset are set here.
func (c *Chunker) Split(text string) []domain.Chunk {
	words := splitWords(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(words)/c.cfg.TargetWords+1)
	start := 0
	for start < len(words) {
		if c.cfg.MaxChunks > 0 && len(chunks) >= c.cfg.MaxChunks {
			break
		}

		end := start + c.cfg.TargetWords
		if end >= len(words) {
			end = len(words)
		} else {
			// Cut early at a sentence end within the tolerance window.
			minCut := end - c.cfg.SentenceTolerance
			if minCut <= start {
				minCut = start + 1
			}
			for i := end; i >= minCut; i-- {
				if endsSentence(text, words[i-1]) {
					end = i
					break
				}
			}
		}

		span := text[words[start].start:words[end-1].end]
		chunks = append(chunks, domain.Chunk{
			Index:        len(chunks),
			SourceOffset: words[start].start,
			Text:         span,
		})

		if end >= len(words) {
			break
		}

		next := end - c.cfg.OverlapWords
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
