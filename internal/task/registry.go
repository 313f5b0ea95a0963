package task

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobRegistry tracks analysis jobs by ID and by session key.
type JobRegistry struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*AnalysisTask
	sessions  map[string]uuid.UUID
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewJobRegistry creates an empty registry that forgets finished jobs after retention.
func NewJobRegistry(retention time.Duration, logger *slog.Logger) *JobRegistry {
	return &JobRegistry{
		jobs:      make(map[uuid.UUID]*AnalysisTask),
		sessions:  make(map[string]uuid.UUID),
		retention: retention,
		now:       time.Now,
		logger:    logger.With("component", "job_registry"),
	}
}

// Register adds t. If another job holds the same session key it is
// superseded, and its ID is returned.
func (r *JobRegistry) Register(t *AnalysisTask) (superseded uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key := t.SessionKey(); key != "" {
		if prevID, ok := r.sessions[key]; ok && prevID != t.ID() {
			if prev, ok := r.jobs[prevID]; ok && prev.Cancel(TaskStatusSuperseded) {
				superseded = prevID
				r.logger.Info("superseded analysis job", "job_id", prevID, "by_job_id", t.ID())
			}
		}
		r.sessions[key] = t.ID()
	}
	r.jobs[t.ID()] = t
	return superseded
}

// Get returns the job with id.
func (r *JobRegistry) Get(id uuid.UUID) (*AnalysisTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return t, nil
}

// Cancel cancels the job with id. Cancelling a finished job is a no-op.
func (r *JobRegistry) Cancel(id uuid.UUID) error {
	t, err := r.Get(id)
	if err != nil {
		return err
	}
	t.Cancel(TaskStatusCancelled)
	return nil
}

// CancelAll cancels every job that has not finished.
func (r *JobRegistry) CancelAll() int {
	r.mu.Lock()
	jobs := make([]*AnalysisTask, 0, len(r.jobs))
	for _, t := range r.jobs {
		jobs = append(jobs, t)
	}
	r.mu.Unlock()

	cancelled := 0
	for _, t := range jobs {
		if t.Cancel(TaskStatusCancelled) {
			cancelled++
		}
	}
	return cancelled
}

// Sweep removes jobs that finished more than the retention window ago and
// returns how many were removed.
func (r *JobRegistry) Sweep() int {
	cutoff := r.now().Add(-r.retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, t := range r.jobs {
		if !t.finishedBefore(cutoff) {
			continue
		}
		delete(r.jobs, id)
		if key := t.SessionKey(); key != "" && r.sessions[key] == id {
			delete(r.sessions, key)
		}
		removed++
	}
	if removed > 0 {
		r.logger.Debug("evicted finished analysis jobs", "count", removed, "remaining", len(r.jobs))
	}
	return removed
}

// Len returns the number of tracked jobs.
func (r *JobRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
