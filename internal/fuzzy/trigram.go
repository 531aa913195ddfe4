package fuzzy

import "github.com/DolphinWorld/demandsolution-codex/internal/textnorm"

const trigramSize = 3

// TrigramSet is a set of 3-character substrings.
type TrigramSet map[string]struct{}

// Contains reports whether gram is in the set.
func (s TrigramSet) Contains(gram string) bool {
	_, ok := s[gram]
	return ok
}

// CreateTrigrams returns the trigrams of the normalized text padded with two spaces on
// each side, so every word contributes boundary trigrams. Text that normalizes to fewer
// than three characters yields a set holding just that string (or nothing when empty).
func CreateTrigrams(text string) TrigramSet {
	normalized := textnorm.Normalize(text)
	if len(normalized) < trigramSize {
		if normalized == "" {
			return TrigramSet{}
		}
		return TrigramSet{normalized: {}}
	}

	padded := "  " + normalized + "  "
	grams := make(TrigramSet, len(padded))
	for i := 0; i+trigramSize <= len(padded); i++ {
		grams[padded[i:i+trigramSize]] = struct{}{}
	}
	return grams
}

// JaccardSimilarity computes |A ∩ B| / |A ∪ B|. It is 0 when either set is empty.
func JaccardSimilarity(a, b TrigramSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for gram := range small {
		if large.Contains(gram) {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
