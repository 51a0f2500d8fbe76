package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedKey(t *testing.T) {
	assert.Equal(t, "milk::dairy", NormalizedKey("  Milk ", "DAIRY"))
	assert.Equal(t, NormalizedKey("milk", "Dairy"), NormalizedKey("MILK", "dairy "))
	assert.NotEqual(t, NormalizedKey("Milk", "Dairy"), NormalizedKey("Milks", "Dairy"))
}

func TestTextNormalizer_Normalize(t *testing.T) {
	n := TextNormalizer{}

	tests := []struct {
		name string
		a, b string
	}{
		{"case and whitespace", "  Whole   MILK ", "whole milk"},
		{"punctuation", "Ben & Jerry's", "ben jerrys"},
		{"plural", "Apples", "apple"},
		{"plural es", "Tomatoes", "tomato"},
		{"accents", "Jalapeño", "jalapeno"},
		{"hyphen", "half-and-half", "half and half"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, n.Normalize(tt.b), n.Normalize(tt.a))
		})
	}
}

func TestTextNormalizer_CollapsesToWords(t *testing.T) {
	n := TextNormalizer{}

	assert.Equal(t, "", n.Normalize(""))
	assert.Equal(t, "", n.Normalize(" !!! "))
	assert.Equal(t, n.Normalize("whole milk"), n.Normalize("WHOLE, milk."))
	assert.Len(t, strings.Fields(n.Normalize("WHOLE, milk.")), 2)
}
