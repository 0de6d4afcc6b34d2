// Package match implements the deterministic text-matching core: query
// normalization, document chunking, lexical scoring, candidate ranking and
// answer synthesis. Everything in this package is a pure function of its
// inputs; no state is held between calls.
package match

import (
	"strings"
	"unicode"
)

const minTokenLength = 2

// stopwords are dropped during tokenization: articles, prepositions and
// pronouns carry no signal for lexical matching.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"of": {}, "for": {}, "to": {}, "in": {}, "on": {}, "at": {},
	"by": {}, "with": {}, "from": {}, "about": {}, "into": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"do": {}, "does": {}, "did": {},
	"and": {}, "or": {}, "that": {}, "this": {},
}

// Normalize lowercases text, strips every non-alphanumeric rune and collapses
// runs of whitespace to a single space.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Tokenize splits text into normalized tokens, dropping stopwords and tokens
// shorter than two characters. Empty input yields nil.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 16)
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		token := b.String()
		b.Reset()
		if len(token) < minTokenLength {
			return
		}
		if _, skip := stopwords[token]; skip {
			return
		}
		out = append(out, token)
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	if len(out) == 0 {
		return nil
	}
	return out
}

// TokenSet is an order-insensitive set of normalized tokens.
type TokenSet map[string]struct{}

// NewTokenSet tokenizes text into a TokenSet.
func NewTokenSet(s string) TokenSet {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given token.
func (ts TokenSet) Contains(token string) bool {
	_, ok := ts[token]
	return ok
}

// Overlap counts tokens present in both sets.
func (ts TokenSet) Overlap(other TokenSet) int {
	if len(ts) == 0 || len(other) == 0 {
		return 0
	}
	small, large := ts, other
	if len(large) < len(small) {
		small, large = large, small
	}
	matches := 0
	for token := range small {
		if _, ok := large[token]; ok {
			matches++
		}
	}
	return matches
}

// Query is a parsed user question: raw text plus its normalized form and
// token set. Queries are ephemeral and never persisted by this package.
type Query struct {
	Raw    string
	Norm   string
	Tokens TokenSet
}

// NewQuery prepares a raw question for scoring.
func NewQuery(raw string) Query {
	return Query{
		Raw:    raw,
		Norm:   Normalize(raw),
		Tokens: NewTokenSet(raw),
	}
}

// Empty reports whether the query normalized to nothing scoreable.
func (q Query) Empty() bool {
	return q.Norm == "" || len(q.Tokens) == 0
}
