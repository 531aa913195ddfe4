package fuzzy

import "strings"

const (
	// PrefixSimilarity is the score for a token that is a prefix of the other.
	PrefixSimilarity = 0.9
	// maxLengthGap is the length difference above which tokens are not compared by edit distance.
	maxLengthGap = 3
)

// TokenSimilarity scores how close a query token is to a candidate token in [0,1].
// Equal tokens score 1, a prefix relation scores 0.9, tokens whose lengths differ by more
// than 3 score 0, and everything else scores 1 - distance/maxLength.
func TokenSimilarity(queryToken, candidateToken string) float64 {
	if queryToken == candidateToken {
		return 1
	}
	if strings.HasPrefix(candidateToken, queryToken) || strings.HasPrefix(queryToken, candidateToken) {
		return PrefixSimilarity
	}

	queryLen := len([]rune(queryToken))
	candidateLen := len([]rune(candidateToken))
	maxLength := max(queryLen, candidateLen)
	if maxLength == 0 {
		return 0
	}
	gap := queryLen - candidateLen
	if gap < 0 {
		gap = -gap
	}
	if gap > maxLengthGap {
		return 0
	}

	distance := LevenshteinDistance(queryToken, candidateToken)
	return max(0, 1-float64(distance)/float64(maxLength))
}
