// Package title repairs weak idea titles by deriving one from the submission text.
package title

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// Fallback is used when nothing usable can be derived.
const Fallback = "New Product Idea"

const (
	minTitleLength  = 12
	maxTitleLength  = 110
	minTitleWords   = 3
	maxDerivedWords = 12

	// clippedPrefixLength is the length under which a title that merely repeats the
	// start of the raw input is replaced.
	clippedPrefixLength = 26
)

var badEndings = map[string]struct{}{
	"and": {}, "or": {}, "but": {}, "to": {}, "for": {}, "with": {}, "of": {}, "a": {}, "an": {}, "the": {},
}

var minorWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "for": {}, "to": {}, "of": {}, "in": {}, "on": {}, "with": {},
}

var (
	quotes          = regexp.MustCompile("^['\"`]+|['\"`]+$")
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	clauseBreak     = regexp.MustCompile(`[.!?;:\n]`)
	actionVerb      = regexp.MustCompile(`(?i)^(build|create|make)\b`)
	requestPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^i\s+(want|need|would\s+like|wish|hope)\s+(to\s+)?`),
		regexp.MustCompile(`(?i)^please\s+`),
		regexp.MustCompile(`(?i)^can\s+you\s+`),
	}
)

// BuildMeaningfulTitle returns candidate unless it is weak or just a short clipped
// prefix of rawInput, in which case a title is derived from rawInput.
func BuildMeaningfulTitle(rawInput, candidate string) string {
	candidate = utils.CollapseWhitespace(candidate)
	if candidate == "" || IsWeak(candidate) {
		return Derive(rawInput)
	}

	raw := strings.ToLower(utils.CollapseWhitespace(rawInput))
	if strings.HasPrefix(raw, strings.ToLower(candidate)) && utf8.RuneCountInString(candidate) < clippedPrefixLength {
		return Derive(rawInput)
	}
	return candidate
}

// IsWeak reports whether a title is too short, too long, too few words, or ends on a
// dangling connective.
func IsWeak(title string) bool {
	cleaned := quotes.ReplaceAllString(utils.CollapseWhitespace(title), "")
	if n := utf8.RuneCountInString(cleaned); n < minTitleLength || n > maxTitleLength {
		return true
	}

	words := strings.Fields(cleaned)
	if len(words) < minTitleWords {
		return true
	}
	if _, bad := badEndings[strings.ToLower(words[len(words)-1])]; bad {
		return true
	}

	alpha := 0
	for _, w := range words {
		if hasLetter.MatchString(w) {
			alpha++
		}
	}
	return alpha < minTitleWords
}

// Derive builds a title from the first clause of the raw input: request phrasing is
// stripped, the clause is capped at twelve words, dangling connectives are dropped and
// the result is prefixed with "Build" unless it already starts with an action verb.
func Derive(rawInput string) string {
	text := utils.CollapseWhitespace(rawInput)
	for _, re := range requestPrefixes {
		text = re.ReplaceAllString(text, "")
	}

	clause := clauseBreak.Split(text, 2)[0]
	if clause == "" {
		clause = text
	}

	words := strings.Fields(clause)
	if len(words) > maxDerivedWords {
		words = words[:maxDerivedWords]
	}
	for len(words) > 0 {
		if _, bad := badEndings[strings.ToLower(words[len(words)-1])]; !bad {
			break
		}
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return Fallback
	}

	phrase := strings.Join(words, " ")
	if !actionVerb.MatchString(phrase) {
		phrase = "Build " + phrase
	}
	return titleCase(phrase)
}

// titleCase capitalizes the first letter of every word except minor words after the
// first. Only the leading rune is raised, so "x-ray" becomes "X-ray".
func titleCase(phrase string) string {
	// Casers are stateful, so each call gets its own.
	lowerCaser, upperCaser := cases.Lower(language.English), cases.Upper(language.English)
	words := strings.Fields(phrase)
	for i, w := range words {
		lower := lowerCaser.String(w)
		if _, minor := minorWords[lower]; i > 0 && minor {
			words[i] = lower
			continue
		}
		_, size := utf8.DecodeRuneInString(lower)
		words[i] = upperCaser.String(lower[:size]) + lower[size:]
	}
	return strings.Join(words, " ")
}
