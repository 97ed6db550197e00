package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/candidate-ranker/internal/logger"
	"alfredoptarigan/candidate-ranker/internal/models"
)

const (
	queueSize        = 100
	pendingBatchSize = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(runID uuid.UUID)
}

type RunProcessor interface {
	ProcessRun(ctx context.Context, id uuid.UUID) error
}

type PendingRunSource interface {
	FindPendingRuns(limit int) ([]models.RankingRun, error)
}

type worker struct {
	pending      PendingRunSource
	processor    RunProcessor
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	log          *zap.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewWorker(pending PendingRunSource, processor RunProcessor, concurrency int, pollInterval time.Duration, log *zap.Logger) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		pending:      pending,
		processor:    processor,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		log:          logger.OrNop(log).With(zap.String("component", "worker")),
		inflight:     make(map[uuid.UUID]struct{}),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.log.Info("worker started", zap.Int("concurrency", w.concurrency), zap.Duration("poll_interval", w.pollInterval))
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("worker stopped")
}

// EnqueueJob implements Worker. A run already queued or running is skipped;
// a full queue leaves the run to the poller.
func (w *worker) EnqueueJob(runID uuid.UUID) {
	w.mu.Lock()
	if _, ok := w.inflight[runID]; ok {
		w.mu.Unlock()
		return
	}
	w.inflight[runID] = struct{}{}
	w.mu.Unlock()

	select {
	case <-w.stopChan:
		w.release(runID)
		w.log.Warn("worker stopped, run not enqueued", zap.String("run_id", runID.String()))
	case w.jobQueue <- runID:
		w.log.Debug("run enqueued", zap.String("run_id", runID.String()))
	default:
		w.release(runID)
		w.log.Warn("queue full, run left for poller", zap.String("run_id", runID.String()))
	}
}

func (w *worker) release(runID uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, runID)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case runID := <-w.jobQueue:
			started := time.Now()
			if err := w.processor.ProcessRun(ctx, runID); err != nil {
				log.Error("run failed", zap.String("run_id", runID.String()), zap.Error(err))
			} else {
				log.Info("run completed", zap.String("run_id", runID.String()), zap.Duration("latency", time.Since(started)))
			}
			w.release(runID)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			runs, err := w.pending.FindPendingRuns(pendingBatchSize)
			if err != nil {
				w.log.Warn("failed to fetch pending runs", zap.Error(err))
				continue
			}

			if len(runs) > 0 {
				w.log.Debug("pending runs found", zap.Int("count", len(runs)))
			}

			for _, run := range runs {
				w.EnqueueJob(run.ID)
			}
		}
	}
}
