package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/events"
)

// TaskFactoryEventHandler implements the events.EventHandler interface
// to turn AnalysisRequested events into submitted jobs.
type TaskFactoryEventHandler struct {
	taskFactory interface {
		CreateTask(req AnalysisRequest) (*AnalysisTask, error)
	}
	taskRunner interface {
		Submit(ctx context.Context, t *AnalysisTask) error
	}
	logger *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the given task factory
// to create tasks, and submits them to the provided task runner.
func NewTaskFactoryEventHandler(
	taskFactory interface {
		CreateTask(req AnalysisRequest) (*AnalysisTask, error)
	},
	taskRunner interface {
		Submit(ctx context.Context, t *AnalysisTask) error
	},
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		taskFactory: taskFactory,
		taskRunner:  taskRunner,
		logger:      logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes AnalysisRequested events by creating and submitting
// a job. Other event types are ignored.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != events.AnalysisRequested {
		h.logger.DebugContext(ctx, "ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.AnalysisRequestPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	mode, err := domain.ParseAnalysisMode(payload.Mode)
	if err != nil {
		return err
	}

	t, err := h.taskFactory.CreateTask(AnalysisRequest{
		JobID:      payload.JobID,
		Mode:       mode,
		Image:      payload.Image,
		SessionKey: payload.SessionKey,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create analysis task", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.taskRunner.Submit(ctx, t); err != nil {
		h.logger.ErrorContext(ctx, "failed to submit analysis task",
			"error", err, "event_id", event.ID, "task_id", t.ID())
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.InfoContext(ctx, "analysis task submitted", "event_id", event.ID, "task_id", t.ID())
	return nil
}
