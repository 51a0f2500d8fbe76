package reconcile

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultMatchThreshold is the similarity ratio at or above which two strings
// are treated as the same product.
const DefaultMatchThreshold = 85.0

// SimilarityScorer compares strings with a Levenshtein ratio in [0, 100].
type SimilarityScorer struct {
	Threshold float64
}

// Ratio returns (1 - distance/maxLen) * 100, measured in runes. Two empty
// strings are identical.
func (SimilarityScorer) Ratio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	distance := levenshtein.ComputeDistance(a, b)
	return (1 - float64(distance)/float64(longest)) * 100
}

func (s SimilarityScorer) LikelySame(a, b string) bool {
	return s.Ratio(a, b) >= s.threshold()
}

func (s SimilarityScorer) threshold() float64 {
	if s.Threshold <= 0 {
		return DefaultMatchThreshold
	}
	return s.Threshold
}
