package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/candidate-ranker/internal/models"
)

func TestParseScore(t *testing.T) {
	valid := map[string]int{
		"87":       87,
		" 92\n":    92,
		"75%":      75,
		"64/100":   64,
		"88.5":     89,
		"1":        1,
		"100":      100,
		"**70**":   70,
		"55.":      55,
		"1.0":      1,
		"99.5":     100,
		"\"42\"":   42,
		"  `99`  ": 99,
	}
	for raw, want := range valid {
		got, err := ParseScore(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := []string{"", "0", "101", "100.5", "-5", "Score: 80", "eighty", "NaN", "Inf", "80 out of 100", "0.5", "100.4", "1e2", "0x1p6", "+50", "5_0", ".5"}
	for _, raw := range invalid {
		_, err := ParseScore(raw)
		var malformed *MalformedModelOutputError
		require.ErrorAs(t, err, &malformed, raw)
		assert.Equal(t, raw, malformed.Raw)
	}
}

func TestRankingScorerScore(t *testing.T) {
	llm := &stubLLM{text: func(_ context.Context, prompt string) (string, error) {
		return " 83 \n", nil
	}}

	score, err := NewRankingScorer(llm, nil).Score(context.Background(), "c1", "Strong Go background.")
	require.NoError(t, err)

	assert.Equal(t, &models.RankingScore{CandidateID: "c1", Score: 83, Raw: "83"}, score)
	require.Len(t, llm.Prompts(), 1)
	assert.Contains(t, llm.Prompts()[0], "Strong Go background.")
}

func TestRankingScorerRejectsOutOfRange(t *testing.T) {
	llm := &stubLLM{text: func(context.Context, string) (string, error) {
		return "250", nil
	}}

	_, err := NewRankingScorer(llm, nil).Score(context.Background(), "c1", "insight")
	assert.Equal(t, KindMalformedModelOutput, ErrorKind(err))
}

func TestInsightGenerator(t *testing.T) {
	llm := &stubLLM{text: func(context.Context, string) (string, error) {
		return "\n  Good match for the backend role.  \n", nil
	}}

	insight, err := NewInsightGenerator(llm, nil).Generate(context.Background(), "c7", InsightInputs{
		Requirements: []string{"Go", "PostgreSQL"},
		Skills:       []string{"Go"},
		ResumeText:   "Jane Doe, backend engineer",
		SocialLinks:  []string{"https://github.com/jane"},
	})
	require.NoError(t, err)

	assert.Equal(t, &models.FitInsight{CandidateID: "c7", Text: "Good match for the backend role."}, insight)
}

func TestInsightGeneratorFailures(t *testing.T) {
	failing := &stubLLM{text: func(context.Context, string) (string, error) {
		return "", errors.New("connection reset")
	}}
	_, err := NewInsightGenerator(failing, nil).Generate(context.Background(), "c1", InsightInputs{})
	assert.Equal(t, KindModelInvocation, ErrorKind(err))

	blank := &stubLLM{text: func(context.Context, string) (string, error) {
		return "   ", nil
	}}
	_, err = NewInsightGenerator(blank, nil).Generate(context.Background(), "c1", InsightInputs{})
	assert.Equal(t, KindModelInvocation, ErrorKind(err))
}

func TestRenderPrompts(t *testing.T) {
	insightPrompt := RenderInsightPrompt(InsightInputs{
		Requirements: []string{"Go", "PostgreSQL"},
		Skills:       []string{"Go", "Docker"},
		ResumeText:   "RESUME BODY",
		SocialLinks:  []string{"https://github.com/jane", "https://linkedin.com/in/jane"},
	})

	assert.Contains(t, insightPrompt, "Job Requirements: Go, PostgreSQL\n")
	assert.Contains(t, insightPrompt, "Candidate Skills: Go, Docker\n")
	assert.Contains(t, insightPrompt, "Resume Text: RESUME BODY\n")
	assert.Contains(t, insightPrompt, "Social Profiles: https://github.com/jane, https://linkedin.com/in/jane\n")
	assert.Equal(t, insightPrompt, RenderInsightPrompt(InsightInputs{
		Requirements: []string{"Go", "PostgreSQL"},
		Skills:       []string{"Go", "Docker"},
		ResumeText:   "RESUME BODY",
		SocialLinks:  []string{"https://github.com/jane", "https://linkedin.com/in/jane"},
	}))

	scorePrompt := RenderScorePrompt("ANALYSIS")
	assert.Contains(t, scorePrompt, "\n\nANALYSIS\n\n")
	assert.True(t, strings.HasSuffix(scorePrompt, "Return only the numerical score without any additional text."))

	pathwayPrompt := RenderPathwayPrompt(models.JobRequirements{Title: "SRE", Requirements: []string{"Linux", "Go"}})
	assert.Contains(t, pathwayPrompt, "Title: SRE\n")
	assert.Contains(t, pathwayPrompt, "Requirements: Linux, Go\n")
	assert.Contains(t, pathwayPrompt, "**Career Timeline**")
}
