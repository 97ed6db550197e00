package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const (
	defaultRankingConcurrency = 4
	defaultCandidateTimeout   = 3 * time.Minute
)

type RankerOptions struct {
	Concurrency      int
	CandidateTimeout time.Duration
}

// RankerDeps are the per-candidate stages. Similarity and Search are optional.
type RankerDeps struct {
	Extractor  TextExtractor
	Insights   InsightGenerator
	Scorer     RankingScorer
	Similarity SimilarityScorer
	Search     CandidateSearchService
}

type CandidateRanker interface {
	Rank(ctx context.Context, req models.RankingRequest) ([]models.RankedCandidate, error)
}

type candidateRanker struct {
	deps RankerDeps
	opts RankerOptions
	log  *zap.Logger
}

func NewCandidateRanker(deps RankerDeps, opts RankerOptions, log *zap.Logger) CandidateRanker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultRankingConcurrency
	}
	if opts.CandidateTimeout <= 0 {
		opts.CandidateTimeout = defaultCandidateTimeout
	}

	return &candidateRanker{deps: deps, opts: opts, log: logger.OrNop(log)}
}

// Rank runs extraction, insight and scoring for every candidate on a bounded
// pool and returns all candidates sorted by score. A failing candidate carries
// an Error and sorts after the scored ones; it never fails the batch. When ctx
// ends early the partial ranking is returned together with ctx.Err().
func (r *candidateRanker) Rank(ctx context.Context, req models.RankingRequest) ([]models.RankedCandidate, error) {
	started := time.Now()
	results := make([]models.RankedCandidate, len(req.Candidates))

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)

	for i, candidate := range req.Candidates {
		g.Go(func() error {
			results[i] = r.rankOne(ctx, req.Job, candidate)
			return nil
		})
	}
	_ = g.Wait()

	SortRanked(results)

	r.log.Info("ranking finished",
		zap.String("job_id", req.Job.ID),
		zap.Int("candidates", len(results)),
		zap.Int("failed", FailedCount(results)),
		zap.Duration("latency", time.Since(started)),
	)

	return results, ctx.Err()
}

func (r *candidateRanker) rankOne(ctx context.Context, job models.JobRequirements, c models.Candidate) models.RankedCandidate {
	out := models.RankedCandidate{Applicant: c.Summary()}
	log := r.log.With(zap.String("job_id", job.ID), zap.String("candidate_id", c.ID))

	if err := ctx.Err(); err != nil {
		return withError(out, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.CandidateTimeout)
	defer cancel()

	extracted := r.deps.Extractor.ExtractFromURL(ctx, c.ResumeURL)
	out.ResumeStatus = extracted.Status

	insight, err := r.deps.Insights.Generate(ctx, c.ID, InsightInputs{
		Requirements: job.Requirements,
		Skills:       c.Skills,
		ResumeText:   extracted.Text,
		SocialLinks:  c.SocialLinks,
	})
	if err != nil {
		log.Warn("fit insight failed", zap.Error(err))
		return withError(out, err)
	}
	out.Insight = insight

	score, err := r.deps.Scorer.Score(ctx, c.ID, insight.Text)
	if err != nil {
		log.Warn("ranking score failed", zap.Error(err))
		return withError(out, err)
	}
	out.Score = score

	if extracted.Status == models.ExtractionOK && extracted.Text != "" && extracted.Text != SentinelBuildPhase {
		r.enrich(ctx, log, job, c, extracted.Text, &out)
	}

	log.Debug("candidate ranked", zap.Int("score", score.Score))
	return out
}

// enrich attaches semantic similarity and indexes the résumé. Failures here
// only lose the enrichment.
func (r *candidateRanker) enrich(ctx context.Context, log *zap.Logger, job models.JobRequirements, c models.Candidate, text string, out *models.RankedCandidate) {
	if r.deps.Similarity != nil {
		sim, err := r.deps.Similarity.Similarity(ctx, JobSearchText(job), text)
		if err != nil {
			log.Warn("similarity failed", zap.Error(err))
		} else {
			out.Similarity = &sim
		}
	}

	if r.deps.Search != nil {
		if _, err := r.deps.Search.IndexResume(ctx, job.ID, c.ID, text); err != nil {
			log.Warn("resume indexing failed", zap.Error(err))
		}
	}
}

func withError(out models.RankedCandidate, err error) models.RankedCandidate {
	out.Error = &models.CandidateError{Kind: ErrorKind(err), Message: err.Error()}
	return out
}

// SortRanked orders scored candidates by descending score, then failed ones.
// Ties keep input order.
func SortRanked(results []models.RankedCandidate) {
	slices.SortStableFunc(results, func(a, b models.RankedCandidate) int {
		switch {
		case a.Scored() && !b.Scored():
			return -1
		case !a.Scored() && b.Scored():
			return 1
		case !a.Scored() && !b.Scored():
			return 0
		}
		return b.Score.Score - a.Score.Score
	})
}

// FailedCount counts candidates carrying an error.
func FailedCount(results []models.RankedCandidate) int {
	n := 0
	for _, res := range results {
		if res.Error != nil {
			n++
		}
	}
	return n
}

func describeFailures(results []models.RankedCandidate) string {
	n := FailedCount(results)
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d candidates could not be ranked", n, len(results))
}
