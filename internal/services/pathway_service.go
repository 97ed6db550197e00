package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const pathwayTemperature = 0.7

type RetryingTextGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type PathwayService interface {
	Generate(ctx context.Context, job models.JobRequirements) (*models.CareerPathway, error)
}

type pathwayService struct {
	llm        RetryingTextGenerator
	certs      CertificationSearcher
	maxRetries int
	log        *zap.Logger
}

func NewPathwayService(llm RetryingTextGenerator, certs CertificationSearcher, maxRetries int, log *zap.Logger) PathwayService {
	return &pathwayService{
		llm:        llm,
		certs:      certs,
		maxRetries: maxRetries,
		log:        logger.OrNop(log),
	}
}

// Generate asks the model for a career pathway, parses it and attaches
// certification suggestions. A failed certification search leaves the list empty.
func (s *pathwayService) Generate(ctx context.Context, job models.JobRequirements) (*models.CareerPathway, error) {
	started := time.Now()

	text, err := s.llm.GenerateTextWithRetry(ctx, RenderPathwayPrompt(job), pathwayTemperature, s.maxRetries)
	if err != nil {
		return nil, asModelError("pathway", err)
	}
	text = strings.TrimSpace(text)

	certs := []models.Certification{}
	if s.certs != nil {
		found, err := s.certs.Search(ctx, job.Title)
		if err != nil {
			s.log.Warn("certification search failed", zap.String("job_title", job.Title), zap.Error(err))
		} else if found != nil {
			certs = found
		}
	}

	pathway := ParsePathway(text)

	s.log.Info("career pathway generated",
		zap.String("job_id", job.ID),
		zap.Int("sections", pathway.Len()),
		zap.Int("certifications", len(certs)),
		zap.Duration("latency", time.Since(started)),
	)

	return &models.CareerPathway{
		Status:         "success",
		Job:            job,
		PathStr:        text,
		PathJSON:       pathway,
		Certifications: certs,
	}, nil
}
