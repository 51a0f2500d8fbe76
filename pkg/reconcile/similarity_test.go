package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityScorer_RatioIdentical(t *testing.T) {
	scorer := SimilarityScorer{}
	for _, s := range []string{"", "a", "milk", "whole milk 2%", "jalapeño"} {
		assert.Equal(t, 100.0, scorer.Ratio(s, s), "ratio(%q, %q)", s, s)
	}
}

func TestSimilarityScorer_RatioSymmetric(t *testing.T) {
	scorer := SimilarityScorer{}
	pairs := [][2]string{
		{"tomatoe", "tomatoes"},
		{"kitten", "sitting"},
		{"", "bread"},
		{"greek yogurt", "yogurt greek"},
		{"crème", "creme"},
	}
	for _, p := range pairs {
		assert.Equal(t, scorer.Ratio(p[0], p[1]), scorer.Ratio(p[1], p[0]), "pair %v", p)
	}
}

func TestSimilarityScorer_RatioValues(t *testing.T) {
	scorer := SimilarityScorer{}

	assert.InDelta(t, 57.142857, scorer.Ratio("kitten", "sitting"), 0.0001)
	assert.InDelta(t, 87.5, scorer.Ratio("tomatoe", "tomatoes"), 0.0001)
	assert.Equal(t, 0.0, scorer.Ratio("", "abc"))
	// runes, not bytes
	assert.InDelta(t, 80.0, scorer.Ratio("crème", "creme"), 0.0001)
}

func TestSimilarityScorer_LikelySame(t *testing.T) {
	scorer := SimilarityScorer{}
	assert.True(t, scorer.LikelySame("tomatoe", "tomatoes"))
	assert.False(t, scorer.LikelySame("fruit", "electronics"))

	strict := SimilarityScorer{Threshold: 95}
	assert.False(t, strict.LikelySame("tomatoe", "tomatoes"))
}
