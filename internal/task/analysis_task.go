package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/domain"
)

// Cancellation causes attached to a job's context.
var (
	ErrJobCancelled  = errors.New("analysis job cancelled")
	ErrJobSuperseded = errors.New("analysis job superseded by a newer request")
)

// AnalysisRequest describes one background analysis.
type AnalysisRequest struct {
	JobID      uuid.UUID
	Mode       domain.AnalysisMode
	Image      string
	SessionKey string
}

// JobSnapshot is a point-in-time copy of a job's state.
type JobSnapshot struct {
	ID         uuid.UUID              `json:"id"`
	Mode       domain.AnalysisMode    `json:"mode"`
	SessionKey string                 `json:"sessionKey,omitempty"`
	Status     TaskStatus             `json:"status"`
	Result     *domain.AnalysisResult `json:"result,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	FinishedAt *time.Time             `json:"finishedAt,omitempty"`

	// Err is the failure of a failed job. The API layer decides what to expose.
	Err error `json:"-"`
}

// AnalysisTask implements the Task interface for one image analysis. It owns
// a cancelable context that outlives the HTTP request that created it.
type AnalysisTask struct {
	id         uuid.UUID
	mode       domain.AnalysisMode
	image      string
	sessionKey string
	analyzer   analysis.Analyzer
	logger     *slog.Logger
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelCauseFunc

	mu         sync.Mutex
	status     TaskStatus
	result     *domain.AnalysisResult
	err        error
	createdAt  time.Time
	finishedAt time.Time
}

// NewAnalysisTask creates a pending analysis task.
func NewAnalysisTask(req AnalysisRequest, analyzer analysis.Analyzer, logger *slog.Logger) (*AnalysisTask, error) {
	if analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAnalysisMode, req.Mode)
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, ErrEmptyImage
	}

	id := req.JobID
	if id == uuid.Nil {
		id = uuid.New()
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	return &AnalysisTask{
		id:         id,
		mode:       req.Mode,
		image:      req.Image,
		sessionKey: req.SessionKey,
		analyzer:   analyzer,
		logger:     logger.With("task_type", TaskTypeAnalysis, "task_id", id, "mode", req.Mode),
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		status:     TaskStatusPending,
		createdAt:  time.Now(),
	}, nil
}

// ID returns the task's unique identifier
func (t *AnalysisTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *AnalysisTask) Type() string {
	return TaskTypeAnalysis
}

// SessionKey returns the grouping key, or "".
func (t *AnalysisTask) SessionKey() string {
	return t.sessionKey
}

// Status returns the current task status
func (t *AnalysisTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Done is closed once the task's own context is cancelled, which happens on
// cancellation, supersession and completion.
func (t *AnalysisTask) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Execute runs the analysis. The call is aborted when either the task is
// cancelled or runCtx (the worker pool's context) ends. A result that arrives
// after cancellation is dropped.
func (t *AnalysisTask) Execute(runCtx context.Context) error {
	t.mu.Lock()
	if t.status.IsTerminal() {
		t.mu.Unlock()
		return context.Cause(t.ctx)
	}
	t.status = TaskStatusProcessing
	t.mu.Unlock()

	ctx, cancel := context.WithCancelCause(t.ctx)
	defer cancel(nil)
	stop := context.AfterFunc(runCtx, func() { cancel(ErrRunnerStopped) })
	defer stop()

	t.logger.Debug("analysis started")
	result, err := t.analyzer.Analyze(ctx, t.image, t.mode)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() {
		t.logger.Info("discarding result of cancelled analysis", "status", t.status)
		return context.Cause(t.ctx)
	}

	t.finishedAt = t.now()
	// Drop the image as soon as it is no longer needed.
	t.image = ""

	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrRunnerStopped) {
			t.status = TaskStatusCancelled
			t.err = ErrRunnerStopped
			t.cancel(ErrRunnerStopped)
			return ErrRunnerStopped
		}
		t.status = TaskStatusFailed
		t.err = err
		t.cancel(err)
		return err
	}

	t.status = TaskStatusCompleted
	t.result = result
	t.cancel(nil)
	return nil
}

// Cancel moves a non-terminal task to status (cancelled or superseded) and
// aborts any provider call in flight. It reports whether the task changed.
func (t *AnalysisTask) Cancel(status TaskStatus) bool {
	cause := ErrJobCancelled
	if status == TaskStatusSuperseded {
		cause = ErrJobSuperseded
	} else {
		status = TaskStatusCancelled
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() {
		return false
	}
	t.status = status
	t.result = nil
	t.image = ""
	t.err = cause
	t.finishedAt = t.now()
	t.cancel(cause)
	t.logger.Info("analysis job cancelled", "status", status)
	return true
}

// Snapshot returns a copy of the task's externally visible state.
func (t *AnalysisTask) Snapshot() JobSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := JobSnapshot{
		ID:         t.id,
		Mode:       t.mode,
		SessionKey: t.sessionKey,
		Status:     t.status,
		Result:     t.result,
		CreatedAt:  t.createdAt,
	}
	if t.status == TaskStatusFailed {
		snap.Err = t.err
	}
	if !t.finishedAt.IsZero() {
		finished := t.finishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

// finishedBefore reports whether the task is terminal and finished before cutoff.
func (t *AnalysisTask) finishedBefore(cutoff time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status.IsTerminal() && !t.finishedAt.IsZero() && t.finishedAt.Before(cutoff)
}

// AnalysisTaskFactory creates AnalysisTask instances bound to one analyzer.
type AnalysisTaskFactory struct {
	analyzer analysis.Analyzer
	logger   *slog.Logger
}

// NewAnalysisTaskFactory creates a new factory.
func NewAnalysisTaskFactory(analyzer analysis.Analyzer, logger *slog.Logger) (*AnalysisTaskFactory, error) {
	if analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &AnalysisTaskFactory{analyzer: analyzer, logger: logger}, nil
}

// CreateTask creates a new pending task for req.
func (f *AnalysisTaskFactory) CreateTask(req AnalysisRequest) (*AnalysisTask, error) {
	return NewAnalysisTask(req, f.analyzer, f.logger)
}
