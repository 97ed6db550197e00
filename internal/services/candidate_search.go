package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	excerptLength      = 300
)

var ErrEmptyQuery = errors.New("query must not be empty")

// CandidateSearchService keeps résumé chunks in the vector index and finds the
// candidates closest to a free-text query.
type CandidateSearchService interface {
	IndexResume(ctx context.Context, jobID, candidateID, text string) (int, error)
	Search(ctx context.Context, jobID, query string, limit int) ([]models.CandidateMatch, error)
}

type candidateSearchService struct {
	index    CandidateIndex
	embedder Embedder
	chunker  TextChunker
	log      *zap.Logger
}

func NewCandidateSearchService(index CandidateIndex, embedder Embedder, chunker TextChunker, log *zap.Logger) CandidateSearchService {
	return &candidateSearchService{
		index:    index,
		embedder: embedder,
		chunker:  chunker,
		log:      logger.OrNop(log),
	}
}

// IndexResume replaces every chunk stored for the candidate under jobID.
func (s *candidateSearchService) IndexResume(ctx context.Context, jobID, candidateID, text string) (int, error) {
	pieces := s.chunker.ChunkText(text, defaultChunkSize, defaultChunkOverlap)
	if len(pieces) == 0 {
		return 0, nil
	}

	chunks := make([]ResumeChunk, 0, len(pieces))
	embeddings := make([][]float32, 0, len(pieces))
	for i, piece := range pieces {
		embedding, err := s.embedder.GenerateEmbedding(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, ResumeChunk{JobID: jobID, CandidateID: candidateID, Index: i, Text: piece})
		embeddings = append(embeddings, embedding)
	}

	if err := s.index.DeleteCandidate(ctx, jobID, candidateID); err != nil {
		return 0, err
	}
	if err := s.index.UpsertChunks(ctx, chunks, embeddings); err != nil {
		return 0, err
	}

	s.log.Debug("resume indexed",
		zap.String("job_id", jobID),
		zap.String("candidate_id", candidateID),
		zap.Int("chunks", len(chunks)),
	)

	return len(chunks), nil
}

func (s *candidateSearchService) Search(ctx context.Context, jobID, query string, limit int) ([]models.CandidateMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, asModelError("embed", err)
	}

	// several chunks of one résumé can match, so over-fetch before grouping
	hits, err := s.index.Search(ctx, jobID, embedding, limit*4)
	if err != nil {
		return nil, err
	}

	return BestPerCandidate(hits, limit), nil
}

// BestPerCandidate keeps the first hit of every candidate, assuming hits are
// ordered by descending score.
func BestPerCandidate(hits []ScoredChunk, limit int) []models.CandidateMatch {
	seen := make(map[string]struct{})
	matches := make([]models.CandidateMatch, 0, limit)

	for _, hit := range hits {
		if len(matches) == limit {
			break
		}
		key := hit.JobID + "/" + hit.CandidateID
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		matches = append(matches, models.CandidateMatch{
			CandidateID: hit.CandidateID,
			JobID:       hit.JobID,
			Score:       hit.Score,
			Excerpt:     logger.TruncateForLog(hit.Text, excerptLength),
		})
	}

	return matches
}
