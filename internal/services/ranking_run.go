package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/repositories"
)

var ErrNoCandidates = errors.New("at least one candidate is required")

// RankingRunService persists asynchronous rankings and executes them for the worker.
type RankingRunService interface {
	Submit(req models.RankingRequest) (*models.RankingRun, error)
	ProcessRun(ctx context.Context, id uuid.UUID) error
}

type rankingRunService struct {
	runs   repositories.RankingRunRepository
	ranker CandidateRanker
	log    *zap.Logger
}

func NewRankingRunService(runs repositories.RankingRunRepository, ranker CandidateRanker, log *zap.Logger) RankingRunService {
	return &rankingRunService{runs: runs, ranker: ranker, log: logger.OrNop(log)}
}

func (s *rankingRunService) Submit(req models.RankingRequest) (*models.RankingRun, error) {
	if err := ValidateRankingRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	run := &models.RankingRun{
		ID:             uuid.New(),
		JobID:          req.Job.ID,
		JobTitle:       req.Job.Title,
		Status:         models.StatusQueued,
		Request:        req,
		CandidateCount: len(req.Candidates),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.runs.Create(run); err != nil {
		return nil, err
	}

	s.log.Info("ranking run queued", zap.String("run_id", run.ID.String()), zap.Int("candidates", run.CandidateCount))
	return run, nil
}

// ProcessRun ranks a queued run and stores the outcome. Per-candidate failures
// are part of a completed result; only an interrupted batch marks the run failed.
func (s *rankingRunService) ProcessRun(ctx context.Context, id uuid.UUID) error {
	if err := s.runs.UpdateStatus(id, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	run, err := s.runs.FindByID(id)
	if err != nil {
		_ = s.runs.UpdateError(id, err.Error())
		return fmt.Errorf("failed to get ranking run: %w", err)
	}

	log := s.log.With(zap.String("run_id", id.String()), zap.String("job_id", run.JobID))
	log.Info("ranking run started", zap.Int("candidates", len(run.Request.Candidates)))

	results, err := s.ranker.Rank(ctx, run.Request)
	if err != nil {
		msg := fmt.Sprintf("ranking interrupted: %v", err)
		if updateErr := s.runs.UpdateError(id, msg); updateErr != nil {
			log.Error("failed to store run error", zap.Error(updateErr))
		}
		return errors.New(msg)
	}

	if err := s.runs.UpdateResult(id, results, FailedCount(results)); err != nil {
		return fmt.Errorf("failed to store ranking result: %w", err)
	}

	if summary := describeFailures(results); summary != "" {
		log.Warn("ranking run completed with failures", zap.String("summary", summary))
	} else {
		log.Info("ranking run completed", zap.Int("candidates", len(results)))
	}

	return nil
}

// ValidateRankingRequest checks the fields a ranking cannot run without.
func ValidateRankingRequest(req models.RankingRequest) error {
	if len(req.Candidates) == 0 {
		return ErrNoCandidates
	}
	for i, c := range req.Candidates {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("candidates[%d].id is required", i)
		}
	}
	return nil
}
