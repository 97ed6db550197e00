package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/candidate-ranker/internal/models"
)

// echoExtractor returns the résumé reference itself as the extracted text.
type echoExtractor struct{}

func (echoExtractor) ExtractFromURL(_ context.Context, rawURL string) models.ExtractedText {
	return models.ExtractedText{Text: rawURL, Status: models.ExtractionOK}
}

func (echoExtractor) Extract(*models.RawDocument) models.ExtractedText {
	return models.ExtractedText{}
}

func (echoExtractor) ExtractFile(string) models.ExtractedText {
	return models.ExtractedText{}
}

var (
	resumeSlot  = regexp.MustCompile(`Resume Text: (\w+)`)
	insightSlot = regexp.MustCompile(`insight:(\w+)`)
)

// scriptedLLM answers insight prompts with "insight:<resume>" and score prompts
// with the scripted answer for that résumé.
func scriptedLLM(scores map[string]string, failInsight map[string]bool) *stubLLM {
	return &stubLLM{text: func(_ context.Context, prompt string) (string, error) {
		if m := resumeSlot.FindStringSubmatch(prompt); m != nil {
			if failInsight[m[1]] {
				return "", errors.New("model overloaded")
			}
			return "insight:" + m[1], nil
		}
		if m := insightSlot.FindStringSubmatch(prompt); m != nil {
			return scores[m[1]], nil
		}
		return "", fmt.Errorf("unexpected prompt %q", prompt)
	}}
}

func newTestRanker(llm *stubLLM, opts RankerOptions, log *zap.Logger) CandidateRanker {
	return NewCandidateRanker(RankerDeps{
		Extractor: echoExtractor{},
		Insights:  NewInsightGenerator(llm, nil),
		Scorer:    NewRankingScorer(llm, nil),
	}, opts, log)
}

func candidates(names ...string) []models.Candidate {
	out := make([]models.Candidate, 0, len(names))
	for _, name := range names {
		out = append(out, models.Candidate{ID: name, FullName: name, ResumeURL: name, Skills: []string{"Go"}})
	}
	return out
}

func ids(results []models.RankedCandidate) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Applicant.ID)
	}
	return out
}

func TestRankSortsDescendingNumerically(t *testing.T) {
	llm := scriptedLLM(map[string]string{"alice": "9", "bob": "85", "carol": "100"}, nil)

	results, err := newTestRanker(llm, RankerOptions{Concurrency: 3}, nil).Rank(context.Background(), models.RankingRequest{
		Job:        models.JobRequirements{ID: "j1", Requirements: []string{"Go"}},
		Candidates: candidates("alice", "bob", "carol"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"carol", "bob", "alice"}, ids(results))
	assert.Equal(t, 100, results[0].Score.Score)
	assert.Equal(t, "insight:carol", results[0].Insight.Text)
	assert.Equal(t, models.ExtractionOK, results[0].ResumeStatus)
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	llm := scriptedLLM(map[string]string{"alice": "70", "bob": "90", "carol": "70", "dave": "70"}, nil)

	results, err := newTestRanker(llm, RankerOptions{Concurrency: 4}, nil).Rank(context.Background(), models.RankingRequest{
		Candidates: candidates("alice", "bob", "carol", "dave"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bob", "alice", "carol", "dave"}, ids(results))
}

func TestRankIsolatesCandidateFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	llm := scriptedLLM(
		map[string]string{"alice": "60", "bob": "not a number", "carol": "80"},
		map[string]bool{"dave": true},
	)

	results, err := newTestRanker(llm, RankerOptions{Concurrency: 2}, zap.New(core)).Rank(context.Background(), models.RankingRequest{
		Candidates: candidates("dave", "alice", "bob", "carol"),
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, []string{"carol", "alice", "dave", "bob"}, ids(results))

	dave := results[2]
	require.NotNil(t, dave.Error)
	assert.Equal(t, KindModelInvocation, dave.Error.Kind)
	assert.Nil(t, dave.Insight)

	bob := results[3]
	require.NotNil(t, bob.Error)
	assert.Equal(t, KindMalformedModelOutput, bob.Error.Kind)
	assert.NotNil(t, bob.Insight)
	assert.Nil(t, bob.Score)

	assert.Equal(t, 2, FailedCount(results))
	assert.Equal(t, 1, logs.FilterMessage("fit insight failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("ranking score failed").Len())
}

func TestRankBoundsConcurrency(t *testing.T) {
	var inflight, peak int32
	llm := &stubLLM{text: func(context.Context, string) (string, error) {
		n := atomic.AddInt32(&inflight, 1)
		defer atomic.AddInt32(&inflight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return "50", nil
	}}

	results, err := newTestRanker(llm, RankerOptions{Concurrency: 2}, nil).Rank(context.Background(), models.RankingRequest{
		Candidates: candidates("a", "b", "c", "d", "e", "f"),
	})
	require.NoError(t, err)

	assert.Len(t, results, 6)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRankCandidateTimeout(t *testing.T) {
	llm := &stubLLM{text: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}

	results, err := newTestRanker(llm, RankerOptions{Concurrency: 2, CandidateTimeout: 20 * time.Millisecond}, nil).
		Rank(context.Background(), models.RankingRequest{Candidates: candidates("a", "b")})
	require.NoError(t, err)

	for _, r := range results {
		require.NotNil(t, r.Error)
		assert.Equal(t, KindTimeout, r.Error.Kind)
	}
}

func TestRankCancelledContextReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := scriptedLLM(map[string]string{"a": "10"}, nil)
	results, err := newTestRanker(llm, RankerOptions{}, nil).Rank(ctx, models.RankingRequest{Candidates: candidates("a", "b")})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotNil(t, r.Error)
	}
	assert.Empty(t, llm.Prompts())
}

func TestRankAttachesSimilarity(t *testing.T) {
	llm := scriptedLLM(map[string]string{"alice": "70"}, nil)
	llm.embed = func(context.Context, string) ([]float32, error) {
		return []float32{1, 1}, nil
	}

	ranker := NewCandidateRanker(RankerDeps{
		Extractor:  echoExtractor{},
		Insights:   NewInsightGenerator(llm, nil),
		Scorer:     NewRankingScorer(llm, nil),
		Similarity: NewSimilarityScorer(llm),
	}, RankerOptions{}, nil)

	results, err := ranker.Rank(context.Background(), models.RankingRequest{
		Job:        models.JobRequirements{Title: "Backend"},
		Candidates: candidates("alice"),
	})
	require.NoError(t, err)

	require.NotNil(t, results[0].Similarity)
	assert.InDelta(t, 1.0, *results[0].Similarity, 1e-9)
}

func TestSortRanked(t *testing.T) {
	scored := func(id string, s int) models.RankedCandidate {
		return models.RankedCandidate{Applicant: models.ApplicantSummary{ID: id}, Score: &models.RankingScore{Score: s}}
	}
	failed := func(id string) models.RankedCandidate {
		return models.RankedCandidate{Applicant: models.ApplicantSummary{ID: id}, Error: &models.CandidateError{Kind: KindInternal}}
	}

	results := []models.RankedCandidate{failed("x"), scored("a", 9), scored("b", 10), failed("y"), scored("c", 9)}
	SortRanked(results)

	assert.Equal(t, []string{"b", "a", "c", "x", "y"}, ids(results))
}
