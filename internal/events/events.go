package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types published by the application.
const (
	// AnalysisRequested asks for an image analysis to run as a background job.
	AnalysisRequested = "analysis_requested"
)

// ErrNoHandler is returned when an event is emitted for a type nobody handles.
var ErrNoHandler = errors.New("no handler registered for event type")

// TaskRequestEvent represents a request to create a background task.
// It contains the necessary information for task creation without
// direct dependencies on the task package.
type TaskRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates the task type that should be created
	Type string `json:"type"`

	// Payload contains the task-specific data serialized as JSON.
	// It may hold image data and must never be logged.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskRequestEvent creates a new TaskRequestEvent with the specified type and payload.
func NewTaskRequestEvent(eventType string, payload any) (*TaskRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// AnalysisRequestPayload is the payload of an AnalysisRequested event.
type AnalysisRequestPayload struct {
	// JobID is assigned by the publisher so it can answer the client
	// before the job starts.
	JobID uuid.UUID `json:"job_id"`

	// Mode is the analysis mode name.
	Mode string `json:"mode"`

	// Image is the data URL or raw base64 payload.
	Image string `json:"image"`

	// SessionKey groups jobs from one client interaction; a newer job with
	// the same key supersedes older ones. Empty means no grouping.
	SessionKey string `json:"session_key,omitempty"`
}

// NewAnalysisRequestedEvent builds an AnalysisRequested event.
func NewAnalysisRequestedEvent(payload AnalysisRequestPayload) (*TaskRequestEvent, error) {
	return NewTaskRequestEvent(AnalysisRequested, payload)
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *TaskRequestEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to the handlers of its type.
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error
}
