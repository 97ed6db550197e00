package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "abc", truncateUTF8("abcdef", 3))

	// "é" is two bytes; a cut inside it backs off to the rune start.
	assert.Equal(t, "Ren", truncateUTF8("René", 4))
	assert.Equal(t, "René", truncateUTF8("René", 5))

	long := strings.Repeat("José ", maxEmbeddingChars)
	cut := truncateUTF8(long, maxEmbeddingChars)
	assert.LessOrEqual(t, len(cut), maxEmbeddingChars)
	assert.True(t, utf8.ValidString(cut))
}
