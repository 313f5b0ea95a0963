package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/redact"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// JobRetention is how long a finished job stays queryable
	JobRetention time.Duration

	// SweepInterval defines how often expired jobs are evicted
	// If zero, defaults to one minute
	SweepInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:   2,
		QueueSize:     32,
		JobRetention:  30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// TaskRunner manages background analysis jobs
type TaskRunner struct {
	queue    *TaskQueue
	pool     *WorkerPool
	registry *JobRegistry
	config   TaskRunnerConfig
	logger   *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)
	ctx, cancel := context.WithCancel(context.Background())

	r := &TaskRunner{
		queue:      queue,
		pool:       pool,
		registry:   NewJobRegistry(config.JobRetention, logger),
		config:     config,
		logger:     logger,
		ctx:        ctx,
		cancelFunc: cancel,
	}
	pool.SetErrorHandler(r.handleJobError)
	return r
}

// handleJobError reports a job that ended without a result. Cancellation,
// supersession and shutdown are expected and logged at debug only.
func (r *TaskRunner) handleJobError(t Task, err error) {
	attrs := []any{
		"job_id", t.ID(),
		"task_type", t.Type(),
		"status", t.Status(),
		"error", redact.Error(err),
	}
	if errors.Is(err, ErrJobCancelled) || errors.Is(err, ErrJobSuperseded) || errors.Is(err, ErrRunnerStopped) {
		r.logger.Debug("analysis job stopped before completion", attrs...)
		return
	}
	r.logger.Error("analysis job failed", attrs...)
}

// Start begins processing tasks and evicting expired jobs.
func (r *TaskRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return ErrRunnerStopped
	}
	if r.started {
		return nil
	}
	r.started = true

	r.pool.Start()

	r.wg.Add(1)
	go r.retentionMonitor()

	r.logger.Info("task runner started",
		"worker_count", r.config.WorkerCount,
		"queue_size", r.config.QueueSize,
		"job_retention", r.config.JobRetention.String())
	return nil
}

// Submit enqueues t and registers it. A job with the same session key that
// is still running is superseded. The queue is tried first so a full queue
// never cancels the job the caller is still waiting on.
func (r *TaskRunner) Submit(ctx context.Context, t *AnalysisTask) error {
	r.mu.Lock()
	stopped := r.stopped
	r.mu.Unlock()
	if stopped {
		return ErrRunnerStopped
	}

	if err := r.queue.Enqueue(t); err != nil {
		t.Cancel(TaskStatusCancelled)
		return fmt.Errorf("failed to enqueue analysis job: %w", err)
	}
	if prev := r.registry.Register(t); prev != uuid.Nil {
		r.logger.InfoContext(ctx, "analysis job replaced an older job in the same session",
			"job_id", t.ID(), "superseded_job_id", prev)
	}
	return nil
}

// Get returns a snapshot of the job with id.
func (r *TaskRunner) Get(_ context.Context, id uuid.UUID) (JobSnapshot, error) {
	t, err := r.registry.Get(id)
	if err != nil {
		return JobSnapshot{}, err
	}
	return t.Snapshot(), nil
}

// Cancel cancels the job with id.
func (r *TaskRunner) Cancel(_ context.Context, id uuid.UUID) error {
	return r.registry.Cancel(id)
}

// Stop gracefully shuts down the task runner. Jobs still queued or running
// end as cancelled.
func (r *TaskRunner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.queue.Close()
	r.pool.Stop()
	r.cancelFunc()
	r.wg.Wait()

	cancelled := r.registry.CancelAll()
	r.logger.Info("task runner stopped", "cancelled_jobs", cancelled)
}

// retentionMonitor periodically evicts jobs past the retention window
func (r *TaskRunner) retentionMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.registry.Sweep()
		}
	}
}
