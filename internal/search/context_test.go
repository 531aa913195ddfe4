package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeSearchTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"drops stopwords", "How to find the best recipes", []string{"find", "best", "recipes"}},
		{"drops single characters", "a b travel", []string{"travel"}},
		{"all stopwords fall back", "the and of", []string{"the", "and", "of"}},
		{"nothing usable", "a i", []string{}},
		{"punctuation splits words", "Wi-Fi 5G!", []string{"wi", "fi", "5g"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeSearchTerms(tt.query))
		})
	}
}

func TestNewContext(t *testing.T) {
	qc := NewContext("  Travel   DEALS! ")
	assert.Equal(t, "travel deals", qc.NormalizedQuery)
	assert.Equal(t, []string{"travel", "deals"}, qc.Tokens)
	assert.True(t, qc.Trigrams.Contains("  t"))
	assert.True(t, qc.Trigrams.Contains("ls "))
}

func TestNormalizeSearchText_Idempotent(t *testing.T) {
	for _, s := range []string{"Hello, World!", "  a--b  ", "ÀÉÎ õ", "tabs\tand\nlines"} {
		once := NormalizeSearchText(s)
		assert.Equal(t, once, NormalizeSearchText(once), s)
	}
}
