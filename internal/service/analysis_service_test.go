package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/analysis"
	"github.com/medveritas/medveritas-api/internal/capture"
	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/events"
	"github.com/medveritas/medveritas-api/internal/mocks"
	"github.com/medveritas/medveritas-api/internal/service"
	"github.com/medveritas/medveritas-api/internal/task"
)

const sampleImage = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

// newJobStack wires an emitter, a task factory handler and a started runner
// the way the server does.
func newJobStack(t *testing.T, analyzer *mocks.MockAnalyzer) (*events.InMemoryEventEmitter, *task.TaskRunner) {
	t.Helper()

	runner := task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount:   1,
		QueueSize:     4,
		JobRetention:  time.Minute,
		SweepInterval: time.Minute,
	}, testLogger())
	require.NoError(t, runner.Start())
	t.Cleanup(runner.Stop)

	factory, err := task.NewAnalysisTaskFactory(analyzer, testLogger())
	require.NoError(t, err)

	emitter := events.NewInMemoryEventEmitter(testLogger())
	emitter.RegisterHandler(events.AnalysisRequested, task.NewTaskFactoryEventHandler(factory, runner, testLogger()))
	return emitter, runner
}

func TestNewAnalysisService_Validation(t *testing.T) {
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())
	emitter := events.NewInMemoryEventEmitter(testLogger())

	_, err := service.NewAnalysisService(nil, nil, nil, testLogger())
	assert.Error(t, err)

	_, err = service.NewAnalysisService(analyzer, nil, nil, nil)
	assert.Error(t, err)

	_, err = service.NewAnalysisService(analyzer, emitter, nil, testLogger())
	assert.Error(t, err, "emitter without job tracker")

	_, err = service.NewAnalysisService(analyzer, nil, nil, testLogger())
	assert.NoError(t, err)
}

func TestAnalysisService_AnalyzeMedicine(t *testing.T) {
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())
	svc, err := service.NewAnalysisService(analyzer, nil, nil, testLogger())
	require.NoError(t, err)

	report, err := svc.AnalyzeMedicine(context.Background(), sampleImage)
	require.NoError(t, err)
	assert.Equal(t, domain.AuthenticityLikelyAuthentic, report.AuthenticityStatus)
	assert.Equal(t, []domain.AnalysisMode{domain.AnalysisModeMedicineScan}, analyzer.Calls.Modes)
}

func TestAnalysisService_ReadPrescription(t *testing.T) {
	analyzer := mocks.NewMockAnalyzerWithTranscript(mocks.SampleTranscript())
	svc, err := service.NewAnalysisService(analyzer, nil, nil, testLogger())
	require.NoError(t, err)

	transcript, err := svc.ReadPrescription(context.Background(), sampleImage)
	require.NoError(t, err)
	assert.Equal(t, "Tab Amoxil 500mg 1-0-1 x 5 days", transcript.RawText)
}

func TestAnalysisService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		mode    domain.AnalysisMode
		err     error
		wantErr error
		calls   int
	}{
		{"no image", "", domain.AnalysisModeMedicineScan, nil, capture.ErrNoImage, 0},
		{"unknown mode", sampleImage, "BARCODE", nil, domain.ErrInvalidAnalysisMode, 0},
		{"missing credential", sampleImage, domain.AnalysisModeMedicineScan, analysis.ErrMissingCredential, analysis.ErrMissingCredential, 1},
		{"transport", sampleImage, domain.AnalysisModePrescriptionRead, analysis.ErrTransport, analysis.ErrTransport, 1},
		{"invalid response", sampleImage, domain.AnalysisModeMedicineScan, analysis.ErrInvalidResponse, analysis.ErrInvalidResponse, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := mocks.NewMockAnalyzerWithError(tt.err)
			svc, err := service.NewAnalysisService(analyzer, nil, nil, testLogger())
			require.NoError(t, err)

			result, err := svc.Analyze(context.Background(), tt.image, tt.mode)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, tt.calls, analyzer.AnalyzeCount())
		})
	}
}

func TestAnalysisService_TestConnection(t *testing.T) {
	for _, connected := range []bool{true, false} {
		analyzer := &mocks.MockAnalyzer{Connected: connected}
		svc, err := service.NewAnalysisService(analyzer, nil, nil, testLogger())
		require.NoError(t, err)

		assert.Equal(t, connected, svc.TestConnection(context.Background()))
		assert.Equal(t, 1, analyzer.Calls.Probe)
	}
}

func TestAnalysisService_JobsDisabled(t *testing.T) {
	svc, err := service.NewAnalysisService(mocks.NewMockAnalyzerWithReport(nil), nil, nil, testLogger())
	require.NoError(t, err)

	_, err = svc.SubmitJob(context.Background(), service.JobRequest{Image: sampleImage, Mode: domain.AnalysisModeMedicineScan})
	assert.ErrorIs(t, err, service.ErrServiceUnavailable)
	_, err = svc.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrServiceUnavailable)
	assert.ErrorIs(t, svc.CancelJob(context.Background(), uuid.New()), service.ErrServiceUnavailable)
}

func TestAnalysisService_SubmitJobRuns(t *testing.T) {
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())
	emitter, runner := newJobStack(t, analyzer)
	svc, err := service.NewAnalysisService(analyzer, emitter, runner, testLogger())
	require.NoError(t, err)

	id, err := svc.SubmitJob(context.Background(), service.JobRequest{
		Image: sampleImage,
		Mode:  domain.AnalysisModeMedicineScan,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	require.Eventually(t, func() bool {
		snap, err := svc.GetJob(context.Background(), id)
		return err == nil && snap.Status == task.TaskStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	snap, err := svc.GetJob(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "Crocin Advance", snap.Result.Medicine.BrandName)
}

func TestAnalysisService_SubmitJobValidation(t *testing.T) {
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())
	emitter, runner := newJobStack(t, analyzer)
	svc, err := service.NewAnalysisService(analyzer, emitter, runner, testLogger())
	require.NoError(t, err)

	_, err = svc.SubmitJob(context.Background(), service.JobRequest{Mode: domain.AnalysisModeMedicineScan})
	assert.ErrorIs(t, err, capture.ErrNoImage)

	_, err = svc.SubmitJob(context.Background(), service.JobRequest{Image: sampleImage, Mode: "OTHER"})
	assert.ErrorIs(t, err, domain.ErrInvalidAnalysisMode)
}

func TestAnalysisService_CancelJob(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	analyzer := &mocks.MockAnalyzer{
		AnalyzeFn: func(ctx context.Context, image string, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
			select {
			case <-release:
				return &domain.AnalysisResult{Mode: mode, Medicine: mocks.SampleReport()}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	emitter, runner := newJobStack(t, analyzer)
	svc, err := service.NewAnalysisService(analyzer, emitter, runner, testLogger())
	require.NoError(t, err)

	id, err := svc.SubmitJob(context.Background(), service.JobRequest{Image: sampleImage, Mode: domain.AnalysisModeMedicineScan})
	require.NoError(t, err)

	require.NoError(t, svc.CancelJob(context.Background(), id))
	require.Eventually(t, func() bool {
		snap, err := svc.GetJob(context.Background(), id)
		return err == nil && snap.Status == task.TaskStatusCancelled && snap.Result == nil
	}, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, svc.CancelJob(context.Background(), uuid.New()), task.ErrJobNotFound)
}
