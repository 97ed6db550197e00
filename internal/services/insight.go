package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const insightTemperature = 0.4

type InsightGenerator interface {
	Generate(ctx context.Context, candidateID string, in InsightInputs) (*models.FitInsight, error)
}

type insightGenerator struct {
	llm TextGenerator
	log *zap.Logger
}

func NewInsightGenerator(llm TextGenerator, log *zap.Logger) InsightGenerator {
	return &insightGenerator{llm: llm, log: logger.OrNop(log)}
}

// Generate makes exactly one model call; there is no retry or caching.
func (g *insightGenerator) Generate(ctx context.Context, candidateID string, in InsightInputs) (*models.FitInsight, error) {
	started := time.Now()

	text, err := g.llm.GenerateText(ctx, RenderInsightPrompt(in), insightTemperature)
	if err != nil {
		return nil, asModelError("insight", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ModelInvocationError{Op: "insight", Err: errors.New("empty insight")}
	}

	g.log.Debug("fit insight generated",
		zap.String("candidate_id", candidateID),
		zap.Int("length", len(text)),
		zap.Duration("latency", time.Since(started)),
	)

	return &models.FitInsight{CandidateID: candidateID, Text: text}, nil
}

// asModelError keeps typed model errors and wraps anything else.
func asModelError(op string, err error) error {
	var model *ModelInvocationError
	var malformed *MalformedModelOutputError
	if errors.As(err, &model) || errors.As(err, &malformed) {
		return err
	}
	return &ModelInvocationError{Op: op, Err: err}
}
