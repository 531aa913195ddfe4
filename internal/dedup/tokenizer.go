// Package dedup decides whether a new idea submission should be merged into an existing
// idea instead of being stored as a new one.
package dedup

import (
	"sort"
	"strings"

	"github.com/DolphinWorld/demandsolution-codex/internal/textnorm"
)

// bigramSeparator joins two adjacent words into one bigram token.
const bigramSeparator = "_"

// minTokenLength is the shortest token kept after stemming.
const minTokenLength = 3

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {}, "from": {}, "into": {},
	"your": {}, "about": {}, "would": {}, "should": {}, "could": {}, "their": {}, "there": {},
	"have": {}, "has": {}, "had": {}, "are": {}, "was": {}, "were": {}, "will": {}, "can": {},
	"our": {}, "you": {}, "they": {}, "them": {}, "but": {}, "not": {}, "use": {}, "using": {},
	// Filler that nearly every submission contains.
	"app": {}, "platform": {}, "idea": {}, "build": {}, "make": {}, "need": {}, "want": {},
	"users": {}, "user": {}, "solution": {}, "project": {}, "feature": {},
	"good": {}, "great": {}, "best": {}, "get": {}, "let": {}, "please": {}, "just": {},
}

var synonyms = map[string]string{
	"notified":      "notify",
	"notification":  "notify",
	"notifications": "notify",
	"alert":         "notify",
	"alerts":        "notify",

	"deal":       "deal",
	"deals":      "deal",
	"offer":      "deal",
	"offers":     "deal",
	"discount":   "deal",
	"discounts":  "deal",
	"promo":      "deal",
	"promos":     "deal",
	"promotion":  "deal",
	"promotions": "deal",

	"trip":       "travel",
	"trips":      "travel",
	"traveling":  "travel",
	"traveller":  "travel",
	"travellers": "travel",
	"traveler":   "travel",
	"travelers":  "travel",

	"discover": "find",
	"search":   "find",
	"scan":     "find",
	"track":    "find",

	"rewards": "points",
	"reward":  "points",
	"miles":   "points",
}

// TokenSet is a set of unigram and bigram tokens.
type TokenSet map[string]struct{}

// Len returns the number of tokens.
func (s TokenSet) Len() int { return len(s) }

// Contains reports whether token is in the set.
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// IsBigram reports whether token joins two words.
func IsBigram(token string) bool {
	return strings.Contains(token, bigramSeparator)
}

// Tokenize turns text into the token set used for merge classification: synonym folding,
// suffix stripping, stopword removal and adjacent-word bigrams.
func Tokenize(text string) TokenSet {
	words := contentWords(text)
	tokens := make(TokenSet, len(words)*2)
	for _, w := range words {
		tokens[w] = struct{}{}
	}
	for i := 0; i+1 < len(words); i++ {
		tokens[words[i]+bigramSeparator+words[i+1]] = struct{}{}
	}
	return tokens
}

// contentWords returns the canonical words of text in order, after stopword filtering.
func contentWords(text string) []string {
	raw := textnorm.Words(text)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		tok := canonicalToken(w)
		if len(tok) < minTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	return words
}

// canonicalToken folds synonyms, strips one suffix and folds synonyms again.
// Rule order matters: the first matching suffix wins.
func canonicalToken(word string) string {
	if word == "" {
		return ""
	}
	if canon, ok := synonyms[word]; ok {
		word = canon
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		word = word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		word = word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 3:
		word = word[:len(word)-1]
	}

	if canon, ok := synonyms[word]; ok {
		word = canon
	}
	return word
}
