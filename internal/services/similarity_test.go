package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebias(t *testing.T) {
	got := Debias("Mr. Smith said he would mentor her. She leads; Ms. Lee thanked him. The shell helper ran.")
	assert.Equal(t, "smith said they would mentor them. they leads; lee thanked them. the shell helper ran.", got)
}

func TestCosineSimilarity(t *testing.T) {
	same, err := CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	orthogonal, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, orthogonal, 1e-9)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)

	_, err = CosineSimilarity([]float32{0, 0}, []float32{1, 2})
	assert.Error(t, err)
}

func TestSimilarityScorerEmbedsDebiasedText(t *testing.T) {
	var seen []string
	llm := &stubLLM{embed: func(_ context.Context, text string) ([]float32, error) {
		seen = append(seen, text)
		if strings.Contains(text, "job") {
			return []float32{1, 0}, nil
		}
		return []float32{1, 1}, nil
	}}

	sim, err := NewSimilarityScorer(llm).Similarity(context.Background(), "Backend JOB for him", "She writes Go")
	require.NoError(t, err)

	assert.InDelta(t, 0.7071, sim, 1e-4)
	assert.Equal(t, []string{"backend job for them", "they writes go"}, seen)
}
