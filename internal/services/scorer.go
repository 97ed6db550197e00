package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const (
	MinScore = 1
	MaxScore = 100
)

var bareNumber = regexp.MustCompile(`^\d+(\.\d+)?$`)

type RankingScorer interface {
	Score(ctx context.Context, candidateID, insight string) (*models.RankingScore, error)
}

type rankingScorer struct {
	llm TextGenerator
	log *zap.Logger
}

func NewRankingScorer(llm TextGenerator, log *zap.Logger) RankingScorer {
	return &rankingScorer{llm: llm, log: logger.OrNop(log)}
}

func (s *rankingScorer) Score(ctx context.Context, candidateID, insight string) (*models.RankingScore, error) {
	raw, err := s.llm.GenerateText(ctx, RenderScorePrompt(insight), 0)
	if err != nil {
		return nil, asModelError("score", err)
	}

	raw = strings.TrimSpace(raw)
	score, err := ParseScore(raw)
	if err != nil {
		s.log.Warn("model returned invalid score",
			zap.String("candidate_id", candidateID),
			zap.String("raw", logger.TruncateForLog(raw, 80)),
		)
		return nil, err
	}

	return &models.RankingScore{CandidateID: candidateID, Score: score, Raw: raw}, nil
}

// ParseScore coerces a model answer into an integer score in [MinScore, MaxScore].
// A bare decimal number is accepted, optionally followed by "%" or "/100".
// The value must already lie in range; fractions then round half up.
// Anything else is a *MalformedModelOutputError.
func ParseScore(raw string) (int, error) {
	s := strings.Trim(strings.TrimSpace(raw), "*`\"' ")
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "/100")
	s = strings.TrimSpace(s)

	malformed := func(err error) error {
		return &MalformedModelOutputError{Op: "score", Raw: raw, Err: err}
	}

	if s == "" {
		return 0, malformed(errors.New("empty score"))
	}

	if !bareNumber.MatchString(s) {
		return 0, malformed(fmt.Errorf("score %q is not a bare number", raw))
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, malformed(fmt.Errorf("score %q is not a number", raw))
	}

	if value < MinScore || value > MaxScore {
		return 0, malformed(fmt.Errorf("score %s outside [%d, %d]", s, MinScore, MaxScore))
	}

	return int(math.Floor(value + 0.5)), nil
}
