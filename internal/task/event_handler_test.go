package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/events"
	"github.com/medveritas/medveritas-api/internal/mocks"
)

type recordingRunner struct {
	submitted []*AnalysisTask
	err       error
}

func (r *recordingRunner) Submit(_ context.Context, t *AnalysisTask) error {
	if r.err != nil {
		return r.err
	}
	r.submitted = append(r.submitted, t)
	return nil
}

func newHandlerUnderTest(t *testing.T, runner *recordingRunner) *TaskFactoryEventHandler {
	t.Helper()
	factory, err := NewAnalysisTaskFactory(mocks.NewMockAnalyzerWithReport(mocks.SampleReport()), discardLogger())
	require.NoError(t, err)
	return NewTaskFactoryEventHandler(factory, runner, discardLogger())
}

func TestTaskFactoryEventHandler_SubmitsAnalysis(t *testing.T) {
	runner := &recordingRunner{}
	handler := newHandlerUnderTest(t, runner)

	jobID := uuid.New()
	event, err := events.NewAnalysisRequestedEvent(events.AnalysisRequestPayload{
		JobID:      jobID,
		Mode:       string(domain.AnalysisModeMedicineScan),
		Image:      testImage,
		SessionKey: "scan",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	require.Len(t, runner.submitted, 1)
	assert.Equal(t, jobID, runner.submitted[0].ID())
	assert.Equal(t, "scan", runner.submitted[0].SessionKey())
}

func TestTaskFactoryEventHandler_Errors(t *testing.T) {
	submitErr := errors.New("queue unavailable")

	tests := []struct {
		name    string
		event   *events.TaskRequestEvent
		runner  *recordingRunner
		wantErr error
	}{
		{
			name: "unknown mode",
			event: mustEvent(t, events.AnalysisRequestPayload{
				JobID: uuid.New(), Mode: "XRAY", Image: testImage,
			}),
			runner:  &recordingRunner{},
			wantErr: domain.ErrInvalidAnalysisMode,
		},
		{
			name: "empty image",
			event: mustEvent(t, events.AnalysisRequestPayload{
				JobID: uuid.New(), Mode: string(domain.AnalysisModePrescriptionRead),
			}),
			runner:  &recordingRunner{},
			wantErr: ErrEmptyImage,
		},
		{
			name: "submit fails",
			event: mustEvent(t, events.AnalysisRequestPayload{
				JobID: uuid.New(), Mode: string(domain.AnalysisModeMedicineScan), Image: testImage,
			}),
			runner:  &recordingRunner{err: submitErr},
			wantErr: submitErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHandlerUnderTest(t, tt.runner)
			err := handler.HandleEvent(context.Background(), tt.event)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, tt.runner.submitted)
		})
	}
}

func TestTaskFactoryEventHandler_MalformedPayload(t *testing.T) {
	runner := &recordingRunner{}
	handler := newHandlerUnderTest(t, runner)

	event := &events.TaskRequestEvent{
		ID:      uuid.New(),
		Type:    events.AnalysisRequested,
		Payload: json.RawMessage(`{"mode": 42}`),
	}
	assert.Error(t, handler.HandleEvent(context.Background(), event))
	assert.Empty(t, runner.submitted)
}

func TestTaskFactoryEventHandler_IgnoresOtherEvents(t *testing.T) {
	runner := &recordingRunner{}
	handler := newHandlerUnderTest(t, runner)

	event, err := events.NewTaskRequestEvent("reminder_due", map[string]string{"id": "x"})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Empty(t, runner.submitted)
}

func mustEvent(t *testing.T, payload events.AnalysisRequestPayload) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewAnalysisRequestedEvent(payload)
	require.NoError(t, err)
	return event
}
