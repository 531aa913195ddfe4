package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only spaces", "   \t\n ", ""},
		{"lowercases", "Travel DEALS", "travel deals"},
		{"strips punctuation", "deals, offers & promos!", "deals offers promos"},
		{"collapses whitespace", "  a   b\t\tc\n", "a b c"},
		{"keeps digits", "Web3 app v2.0", "web3 app v2 0"},
		{"hyphens split words", "e-mail follow-up", "e mail follow up"},
		{"non ascii letters become separators", "café naïve", "caf na ve"},
		{"only punctuation", "?!...;", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Build an app that notifies travelers about flight deals and discounts",
		"  Mixed\tCASE -- with ___ underscores__ and 123 numbers ",
		"ünïcödé ñoño 你好 world",
		"a",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestWords(t *testing.T) {
	assert.Nil(t, Words("   "))
	assert.Equal(t, []string{"recipe", "sharing", "for", "home", "cooks"}, Words("Recipe-sharing, for home cooks."))
}
