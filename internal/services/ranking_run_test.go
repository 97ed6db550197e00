package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/candidate-ranker/internal/models"
	"alfredoptarigan/candidate-ranker/internal/repositories"
)

type memoryRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.RankingRun
}

func newMemoryRunRepo() *memoryRunRepo {
	return &memoryRunRepo{runs: map[uuid.UUID]*models.RankingRun{}}
}

func (m *memoryRunRepo) Create(run *models.RankingRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memoryRunRepo) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, repositories.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (m *memoryRunRepo) UpdateStatus(id uuid.UUID, status models.RunStatus) error {
	return m.with(id, func(r *models.RankingRun) { r.Status = status })
}

func (m *memoryRunRepo) UpdateResult(id uuid.UUID, results []models.RankedCandidate, failedCount int) error {
	return m.with(id, func(r *models.RankingRun) {
		r.Status = models.StatusCompleted
		r.Results = results
		r.CandidateCount = len(results)
		r.FailedCount = failedCount
	})
}

func (m *memoryRunRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	return m.with(id, func(r *models.RankingRun) {
		r.Status = models.StatusFailed
		r.ErrorMessage = &errorMsg
	})
}

func (m *memoryRunRepo) FindPendingRuns(limit int) ([]models.RankingRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RankingRun
	for _, r := range m.runs {
		if r.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRunRepo) with(id uuid.UUID, fn func(*models.RankingRun)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return repositories.ErrRunNotFound
	}
	fn(run)
	return nil
}

func TestRankingRunSubmitAndProcess(t *testing.T) {
	repo := newMemoryRunRepo()
	llm := scriptedLLM(map[string]string{"alice": "40", "bob": "90"}, map[string]bool{"carol": true})
	svc := NewRankingRunService(repo, newTestRanker(llm, RankerOptions{Concurrency: 2}, nil), nil)

	run, err := svc.Submit(models.RankingRequest{
		Job:        models.JobRequirements{ID: "j1", Title: "Backend Engineer"},
		Candidates: candidates("alice", "bob", "carol"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, run.Status)
	assert.Equal(t, 3, run.CandidateCount)

	require.NoError(t, svc.ProcessRun(context.Background(), run.ID))

	stored, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, []string{"bob", "alice", "carol"}, ids(stored.Results))
	assert.Equal(t, 1, stored.FailedCount)
}

func TestRankingRunInterrupted(t *testing.T) {
	repo := newMemoryRunRepo()
	svc := NewRankingRunService(repo, newTestRanker(scriptedLLM(nil, nil), RankerOptions{}, nil), nil)

	run, err := svc.Submit(models.RankingRequest{Candidates: candidates("alice")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, svc.ProcessRun(ctx, run.ID))

	stored, err := repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "ranking interrupted")
}

func TestRankingRunSubmitValidation(t *testing.T) {
	svc := NewRankingRunService(newMemoryRunRepo(), nil, nil)

	_, err := svc.Submit(models.RankingRequest{})
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = svc.Submit(models.RankingRequest{Candidates: []models.Candidate{{FullName: "no id"}}})
	assert.EqualError(t, err, "candidates[0].id is required")
}

func TestRankingRunProcessUnknownRun(t *testing.T) {
	svc := NewRankingRunService(newMemoryRunRepo(), nil, nil)

	err := svc.ProcessRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repositories.ErrRunNotFound)
}

type recordingProcessor struct {
	mu    sync.Mutex
	seen  []uuid.UUID
	done  chan uuid.UUID
	block chan struct{}
}

func (p *recordingProcessor) ProcessRun(_ context.Context, id uuid.UUID) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	p.seen = append(p.seen, id)
	p.mu.Unlock()
	select {
	case p.done <- id:
	default:
	}
	return nil
}

func TestWorkerProcessesEnqueuedRuns(t *testing.T) {
	proc := &recordingProcessor{done: make(chan uuid.UUID, 4)}
	w := NewWorker(newMemoryRunRepo(), proc, 2, time.Hour, nil)
	w.Start(context.Background())
	defer w.Stop()

	a, b := uuid.New(), uuid.New()
	w.EnqueueJob(a)
	w.EnqueueJob(b)

	got := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-proc.done:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("run was not processed")
		}
	}
	assert.True(t, got[a])
	assert.True(t, got[b])
}

func TestWorkerSkipsDuplicateInflightRun(t *testing.T) {
	proc := &recordingProcessor{done: make(chan uuid.UUID, 4), block: make(chan struct{})}
	w := NewWorker(newMemoryRunRepo(), proc, 1, time.Hour, nil)
	w.Start(context.Background())

	id := uuid.New()
	w.EnqueueJob(id)
	w.EnqueueJob(id)
	close(proc.block)

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("run was not processed")
	}
	w.Stop()

	proc.mu.Lock()
	defer proc.mu.Unlock()
	assert.Equal(t, []uuid.UUID{id}, proc.seen)
}

func TestWorkerPollsPendingRuns(t *testing.T) {
	repo := newMemoryRunRepo()
	queued := &models.RankingRun{ID: uuid.New(), Status: models.StatusQueued}
	require.NoError(t, repo.Create(queued))

	proc := &recordingProcessor{done: make(chan uuid.UUID, 4)}
	w := NewWorker(repo, proc, 1, 10*time.Millisecond, nil)
	w.Start(context.Background())
	defer w.Stop()

	select {
	case id := <-proc.done:
		assert.Equal(t, queued.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("pending run was not picked up")
	}
}
