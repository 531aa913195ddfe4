package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalToken(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		// Synonyms before stemming
		{"discounts", "deal"},
		{"travelers", "travel"},
		{"alerts", "notify"},
		{"miles", "point"}, // folded, then stemmed
		{"search", "find"},

		// Suffix rules in priority order
		{"notifies", "notify"},
		{"ties", "tie"}, // too short for -ies, falls through to -s
		{"sharing", "shar"},
		{"ring", "ring"},
		{"subscribed", "subscrib"},
		{"used", "used"},
		{"cooks", "cook"},
		{"bus", "bus"},

		// Synonyms after stemming
		{"alerting", "notify"},
		{"tracked", "find"},
		{"scans", "find"},

		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalToken(tt.word))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("synonyms stems and bigrams", func(t *testing.T) {
		got := Tokenize("Build an app that notifies travelers about flight deals and discounts")
		want := []string{
			"deal", "deal_deal", "flight", "flight_deal", "notify", "notify_travel",
			"travel", "travel_flight",
		}
		assert.Equal(t, want, got.Sorted())
	})

	t.Run("stopwords and short words removed", func(t *testing.T) {
		assert.Empty(t, Tokenize("Please build an app for the users, it is a great idea"))
	})

	t.Run("stopword after stemming removed", func(t *testing.T) {
		// "users" stems to "user", which is a stopword.
		assert.Equal(t, []string{"cook", "cook_recipe", "recipe"}, Tokenize("users cooks recipes").Sorted())
	})

	t.Run("bigrams built from filtered sequence", func(t *testing.T) {
		got := Tokenize("travel and deal")
		assert.True(t, got.Contains("travel_deal"))
	})

	t.Run("every token at least three long", func(t *testing.T) {
		for tok := range Tokenize("ox ax a an go to it is at ok fix bug wi-fi tv app") {
			assert.GreaterOrEqual(t, len(tok), minTokenLength, tok)
			_, stop := stopWords[tok]
			assert.False(t, stop, tok)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, Tokenize("").Len())
	})
}

func TestIsBigram(t *testing.T) {
	assert.True(t, IsBigram("travel_deal"))
	assert.False(t, IsBigram("travel"))
}
