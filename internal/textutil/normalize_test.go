package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"punctuation and case", "Spider-Man: No Way Home", "SPIDER MAN NO WAY HOME", true},
		{"full width forms", "ＡＢＣ：Ｄ", "abc d", true},
		{"chinese full width colon", "流浪地球：序章", "流浪地球 序章", true},
		{"surrounding whitespace", "  Inception ", "inception", true},
		{"different titles", "Inception", "Interstellar", false},
		{"similar but not equal", "The Office", "The Office US", false},
		{"empty never matches", "", "", false},
		{"punctuation only", "!!", "??", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesEqual(tt.a, tt.b))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "spidermannowayhome", Normalize("Spider-Man: No Way Home"))
	assert.Equal(t, "盗梦空间", Normalize("盗梦空间"))
	assert.Equal(t, "", Normalize("  "))
}

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny("Show", "", "Other", "SHOW"))
	assert.False(t, MatchAny("Show", "Other", "Show 2"))
	assert.False(t, MatchAny("", "anything"))
	assert.False(t, MatchAny("Show"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("2049"))
	assert.False(t, IsNumeric("2049a"))
	assert.False(t, IsNumeric(""))
}
