// Package scheduler provides solve-job scheduling and worker pool management.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/StevenJWChen/layout-automation/pkg/collections"
	"github.com/StevenJWChen/layout-automation/pkg/config"
	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/parallel"
	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

// JobFetcher retrieves pending solve jobs and claims them for processing.
type JobFetcher interface {
	FetchPending(ctx context.Context, limit int) ([]*model.SolveJob, error)
	Lock(ctx context.Context, id int64) (bool, error)
}

// JobProcessor processes a single claimed solve job.
type JobProcessor interface {
	Process(ctx context.Context, job *model.SolveJob) error
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	PollInterval  time.Duration // How often to poll for new jobs
	WorkerCount   int           // Number of concurrent solves
	TaskBatchSize int           // Max jobs to fetch per poll
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  2 * time.Second,
		WorkerCount:   5,
		TaskBatchSize: 10,
	}
}

// FromConfig creates scheduler config from application config.
func FromConfig(cfg *config.SchedulerConfig) *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  time.Duration(cfg.PollInterval) * time.Second,
		WorkerCount:   cfg.WorkerCount,
		TaskBatchSize: cfg.TaskBatchSize,
	}
}

// Scheduler polls for pending solve jobs and dispatches them onto a bounded
// worker pool. Solves are single-threaded per job; only independent jobs
// run concurrently, up to WorkerCount at a time.
type Scheduler struct {
	config    *SchedulerConfig
	fetcher   JobFetcher
	processor JobProcessor
	pool      *parallel.WorkerPool[*model.SolveJob, struct{}]
	logger    utils.Logger

	mu   sync.Mutex
	busy *collections.Bitset // slot occupancy for the ActiveWorkers gauge

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a new Scheduler.
func New(cfg *SchedulerConfig, fetcher JobFetcher, processor JobProcessor, logger utils.Logger) *Scheduler {
	if cfg == nil {
		cfg = DefaultSchedulerConfig()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	pool := parallel.NewWorkerPool[*model.SolveJob, struct{}](
		parallel.DefaultPoolConfig().WithWorkers(cfg.WorkerCount),
	)

	return &Scheduler{
		config:    cfg,
		fetcher:   fetcher,
		processor: processor,
		pool:      pool,
		logger:    logger,
		busy:      collections.NewBitset(cfg.WorkerCount),
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler's poll loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler with %d workers", s.config.WorkerCount)
	s.running = true
	go s.pollLoop(ctx)
	return nil
}

// Stop stops the scheduler gracefully, waiting for in-flight batches to
// finish dispatching before returning.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// pollLoop periodically fetches and dispatches pending jobs.
func (s *Scheduler) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce fetches one batch of pending jobs, claims each, and dispatches
// the claimed subset onto the worker pool without blocking the poll loop.
func (s *Scheduler) pollOnce(ctx context.Context) {
	jobs, err := s.fetcher.FetchPending(ctx, s.config.TaskBatchSize)
	if err != nil {
		s.logger.Error("Failed to fetch pending jobs: %v", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	claimed := make([]*model.SolveJob, 0, len(jobs))
	for _, job := range jobs {
		ok, err := s.fetcher.Lock(ctx, job.ID)
		if err != nil {
			s.logger.Error("Failed to lock job %s: %v", job.UUID, err)
			continue
		}
		if !ok {
			continue
		}
		claimed = append(claimed, job)
	}
	if len(claimed) == 0 {
		return
	}

	s.logger.Info("Dispatching %d job(s)", len(claimed))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(ctx, claimed)
	}()
}

// dispatch runs a claimed batch through the worker pool and logs any
// per-job failures (the job's own status row already records the reason).
func (s *Scheduler) dispatch(ctx context.Context, jobs []*model.SolveJob) {
	results := s.pool.ExecuteFunc(ctx, jobs, func(ctx context.Context, job *model.SolveJob) (struct{}, error) {
		slot := s.acquireSlot()
		defer s.releaseSlot(slot)
		return struct{}{}, s.processor.Process(ctx, job)
	})

	for i, r := range results {
		if r.Error != nil {
			s.logger.Error("Job %s failed: %v", jobs[i].UUID, r.Error)
		}
	}
}

// acquireSlot claims the lowest free bit in the busy set, or -1 if every
// tracked slot is occupied (the pool itself still bounds real concurrency
// to WorkerCount regardless; this only affects the Stats() gauge).
func (s *Scheduler) acquireSlot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.busy.Size(); i++ {
		if !s.busy.Test(i) {
			s.busy.Set(i)
			return i
		}
	}
	return -1
}

func (s *Scheduler) releaseSlot(i int) {
	if i < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy.Clear(i)
}

// Stats returns current scheduler statistics.
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	active := s.busy.Count()
	s.mu.Unlock()
	return SchedulerStats{
		ActiveWorkers: active,
		TotalWorkers:  s.config.WorkerCount,
		Running:       s.running,
	}
}

// SchedulerStats holds scheduler statistics.
type SchedulerStats struct {
	ActiveWorkers int  `json:"active_workers"`
	TotalWorkers  int  `json:"total_workers"`
	Running       bool `json:"running"`
}
