package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/domain"
	"github.com/medveritas/medveritas-api/internal/mocks"
)

const testImage = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

// blockingAnalyzer returns a mock whose analyses wait until release is
// closed or the call's context ends. started receives once per call.
func blockingAnalyzer() (analyzer *mocks.MockAnalyzer, started chan struct{}, release chan struct{}) {
	started = make(chan struct{}, 16)
	release = make(chan struct{})
	analyzer = &mocks.MockAnalyzer{
		AnalyzeFn: func(ctx context.Context, image string, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
			started <- struct{}{}
			select {
			case <-release:
				return &domain.AnalysisResult{Mode: mode, Medicine: mocks.SampleReport()}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	return analyzer, started, release
}

func newTestTask(t *testing.T, analyzer *mocks.MockAnalyzer, sessionKey string) *AnalysisTask {
	t.Helper()
	task, err := NewAnalysisTask(AnalysisRequest{
		JobID:      uuid.New(),
		Mode:       domain.AnalysisModeMedicineScan,
		Image:      testImage,
		SessionKey: sessionKey,
	}, analyzer, discardLogger())
	require.NoError(t, err)
	return task
}

func waitForStart(t *testing.T, started <-chan struct{}) {
	t.Helper()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis did not start")
	}
}

func waitForStatus(t *testing.T, task *AnalysisTask, want TaskStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return task.Status() == want
	}, 2*time.Second, 5*time.Millisecond, "task never reached status %s", want)
}
