package reconcile

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizedKey is the exact-match lookup key used while reconciling one batch.
func NormalizedKey(name, category string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" + strings.ToLower(strings.TrimSpace(category))
}

// TextNormalizer reduces a product name or category to a canonical form:
// case folded, accents and punctuation removed, whitespace collapsed and every
// word reduced to its English stem. It holds no state.
type TextNormalizer struct{}

func (TextNormalizer) Normalize(s string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return -1
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			return r
		default:
			return ' '
		}
	}, folded)

	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = english.Stem(w, true)
	}
	return strings.Join(words, " ")
}
