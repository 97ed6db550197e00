package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var debiasRules = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\b(he|she)\b`), "they"},
	{regexp.MustCompile(`\b(him|her)\b`), "them"},
	{regexp.MustCompile(`\b(mr|mrs|ms)\.\s*`), ""},
}

// Debias lower-cases text and neutralises gendered pronouns and honorifics
// before it is embedded.
func Debias(text string) string {
	text = strings.ToLower(text)
	for _, rule := range debiasRules {
		text = rule.pattern.ReplaceAllString(text, rule.repl)
	}
	return text
}

// CosineSimilarity returns the cosine of the angle between a and b.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, errors.New("zero vector")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

type SimilarityScorer interface {
	Similarity(ctx context.Context, jobText, resumeText string) (float64, error)
}

type embeddingSimilarity struct {
	embedder Embedder
}

func NewSimilarityScorer(embedder Embedder) SimilarityScorer {
	return &embeddingSimilarity{embedder: embedder}
}

// Similarity embeds the debiased job and résumé texts and compares them.
func (s *embeddingSimilarity) Similarity(ctx context.Context, jobText, resumeText string) (float64, error) {
	jobVec, err := s.embedder.GenerateEmbedding(ctx, Debias(jobText))
	if err != nil {
		return 0, asModelError("embed", err)
	}

	resumeVec, err := s.embedder.GenerateEmbedding(ctx, Debias(resumeText))
	if err != nil {
		return 0, asModelError("embed", err)
	}

	return CosineSimilarity(jobVec, resumeVec)
}
