package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medveritas/medveritas-api/internal/mocks"
)

func TestJobRegistry_RegisterAndGet(t *testing.T) {
	r := NewJobRegistry(time.Minute, discardLogger())
	task := newTestTask(t, mocks.NewMockAnalyzerWithReport(mocks.SampleReport()), "")

	assert.Equal(t, uuid.Nil, r.Register(task))

	got, err := r.Get(task.ID())
	require.NoError(t, err)
	assert.Same(t, task, got)

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRegistry_SupersedesSameSession(t *testing.T) {
	r := NewJobRegistry(time.Minute, discardLogger())
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())

	older := newTestTask(t, analyzer, "scan-screen")
	other := newTestTask(t, analyzer, "another-session")
	newer := newTestTask(t, analyzer, "scan-screen")

	r.Register(older)
	r.Register(other)
	assert.Equal(t, older.ID(), r.Register(newer))

	assert.Equal(t, TaskStatusSuperseded, older.Status())
	assert.Equal(t, TaskStatusPending, other.Status())
	assert.Equal(t, TaskStatusPending, newer.Status())
}

func TestJobRegistry_FinishedJobIsNotSuperseded(t *testing.T) {
	r := NewJobRegistry(time.Minute, discardLogger())
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())

	older := newTestTask(t, analyzer, "s")
	r.Register(older)
	require.NoError(t, older.Execute(t.Context()))

	assert.Equal(t, uuid.Nil, r.Register(newTestTask(t, analyzer, "s")))
	assert.Equal(t, TaskStatusCompleted, older.Status())
}

func TestJobRegistry_Cancel(t *testing.T) {
	r := NewJobRegistry(time.Minute, discardLogger())
	task := newTestTask(t, mocks.NewMockAnalyzerWithReport(mocks.SampleReport()), "")
	r.Register(task)

	require.NoError(t, r.Cancel(task.ID()))
	require.NoError(t, r.Cancel(task.ID()), "cancel is idempotent")
	assert.Equal(t, TaskStatusCancelled, task.Status())

	assert.ErrorIs(t, r.Cancel(uuid.New()), ErrJobNotFound)
}

func TestJobRegistry_CancelAll(t *testing.T) {
	r := NewJobRegistry(time.Minute, discardLogger())
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())

	done := newTestTask(t, analyzer, "")
	require.NoError(t, done.Execute(t.Context()))
	pending := newTestTask(t, analyzer, "")
	r.Register(done)
	r.Register(pending)

	assert.Equal(t, 1, r.CancelAll())
	assert.Equal(t, TaskStatusCompleted, done.Status())
	assert.Equal(t, TaskStatusCancelled, pending.Status())
}

func TestJobRegistry_Sweep(t *testing.T) {
	r := NewJobRegistry(10*time.Minute, discardLogger())
	analyzer := mocks.NewMockAnalyzerWithReport(mocks.SampleReport())
	start := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	expired := newTestTask(t, analyzer, "s")
	expired.now = func() time.Time { return start }
	require.NoError(t, expired.Execute(t.Context()))

	fresh := newTestTask(t, analyzer, "")
	fresh.now = func() time.Time { return start.Add(9 * time.Minute) }
	require.NoError(t, fresh.Execute(t.Context()))

	running := newTestTask(t, analyzer, "")

	r.Register(expired)
	r.Register(fresh)
	r.Register(running)

	r.now = func() time.Time { return start.Add(11 * time.Minute) }
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 2, r.Len())

	_, err := r.Get(expired.ID())
	assert.ErrorIs(t, err, ErrJobNotFound)

	// The session slot was released with the expired job.
	assert.Equal(t, uuid.Nil, r.Register(newTestTask(t, analyzer, "s")))
}
