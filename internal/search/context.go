package search

import (
	"github.com/DolphinWorld/demandsolution-codex/internal/fuzzy"
	"github.com/DolphinWorld/demandsolution-codex/internal/textnorm"
)

// minSearchTokenLength is the shortest query token kept.
const minSearchTokenLength = 2

var searchStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "how": {}, "i": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {},
	"to": {}, "we": {}, "with": {}, "you": {}, "your": {},
}

// Context is the per-query state shared by every candidate score.
type Context struct {
	NormalizedQuery string
	Tokens          []string
	Trigrams        fuzzy.TrigramSet
}

// NewContext normalizes, tokenizes and trigrams the query once.
func NewContext(query string) *Context {
	return &Context{
		NormalizedQuery: NormalizeSearchText(query),
		Tokens:          TokenizeSearchTerms(query),
		Trigrams:        fuzzy.CreateTrigrams(query),
	}
}

// NormalizeSearchText lowercases text and reduces it to single-spaced [a-z0-9] words.
func NormalizeSearchText(text string) string {
	return textnorm.Normalize(text)
}

// TokenizeSearchTerms returns the meaningful query words: at least two characters and
// not a stopword. A query made only of stopwords keeps all its words of two or more
// characters instead.
func TokenizeSearchTerms(query string) []string {
	words := textnorm.Words(query)
	if len(words) == 0 {
		return []string{}
	}

	meaningful := make([]string, 0, len(words))
	long := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minSearchTokenLength {
			continue
		}
		long = append(long, w)
		if _, stop := searchStopWords[w]; !stop {
			meaningful = append(meaningful, w)
		}
	}
	if len(meaningful) > 0 {
		return meaningful
	}
	return long
}
