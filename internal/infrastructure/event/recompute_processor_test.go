package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockJobQueue struct {
	mock.Mock
}

func (m *mockJobQueue) FindReady(ctx context.Context, now time.Time, limit int) ([]*finance.PayoutRecomputeJob, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.PayoutRecomputeJob), args.Error(1)
}

func (m *mockJobQueue) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobQueue) ReleaseStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobQueue) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, job *finance.PayoutRecomputeJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func processorForTest(queue *mockJobQueue, runner *mockRunner) *RecomputeProcessor {
	return NewRecomputeProcessor(queue, runner, RecomputeProcessorConfig{
		BatchSize:    10,
		PollInterval: 10 * time.Millisecond,
		StaleAfter:   time.Minute,
	}, zap.NewNop())
}

func TestRecomputeProcessor_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("runs claimed jobs and skips ones lost to another worker", func(t *testing.T) {
		queue, runner := &mockJobQueue{}, &mockRunner{}
		p := processorForTest(queue, runner)
		won := finance.NewPayoutRecomputeJob(uuid.New(), finance.RecomputeReasonCreated)
		lost := finance.NewPayoutRecomputeJob(uuid.New(), finance.RecomputeReasonUpdated)

		queue.On("ReleaseStale", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		queue.On("FindReady", mock.Anything, mock.AnythingOfType("time.Time"), 10).
			Return([]*finance.PayoutRecomputeJob{won, lost}, nil)
		queue.On("Claim", mock.Anything, won.ID).Return(true, nil)
		queue.On("Claim", mock.Anything, lost.ID).Return(false, nil)
		runner.On("Run", mock.Anything, mock.MatchedBy(func(job *finance.PayoutRecomputeJob) bool {
			return job.ID == won.ID && job.Status == finance.RecomputeJobProcessing
		})).Return(nil).Once()

		completed := p.ProcessBatch(ctx)

		assert.Equal(t, 1, completed)
		queue.AssertExpectations(t)
		runner.AssertExpectations(t)
	})

	t.Run("a failed run does not stop the batch", func(t *testing.T) {
		queue, runner := &mockJobQueue{}, &mockRunner{}
		p := processorForTest(queue, runner)
		failing := finance.NewPayoutRecomputeJob(uuid.New(), finance.RecomputeReasonSweep)
		next := finance.NewPayoutRecomputeJob(uuid.New(), finance.RecomputeReasonSweep)

		queue.On("ReleaseStale", mock.Anything, mock.Anything).Return(int64(2), nil)
		queue.On("FindReady", mock.Anything, mock.Anything, 10).
			Return([]*finance.PayoutRecomputeJob{failing, next}, nil)
		queue.On("Claim", mock.Anything, mock.Anything).Return(true, nil)
		runner.On("Run", mock.Anything, failing).Return(errors.New("db timeout")).Once()
		runner.On("Run", mock.Anything, next).Return(nil).Once()

		assert.Equal(t, 1, p.ProcessBatch(ctx))
		runner.AssertExpectations(t)
	})

	t.Run("releases stale jobs relative to StaleAfter", func(t *testing.T) {
		queue, runner := &mockJobQueue{}, &mockRunner{}
		p := processorForTest(queue, runner)
		before := time.Now()

		queue.On("ReleaseStale", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			return !cutoff.After(before.Add(-time.Minute).Add(time.Second))
		})).Return(int64(0), nil)
		queue.On("FindReady", mock.Anything, mock.Anything, 10).Return(nil, errors.New("connection refused"))

		assert.Zero(t, p.ProcessBatch(ctx))
		queue.AssertExpectations(t)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("claim errors skip the job", func(t *testing.T) {
		queue, runner := &mockJobQueue{}, &mockRunner{}
		p := processorForTest(queue, runner)
		job := finance.NewPayoutRecomputeJob(uuid.New(), finance.RecomputeReasonManual)

		queue.On("ReleaseStale", mock.Anything, mock.Anything).Return(int64(0), nil)
		queue.On("FindReady", mock.Anything, mock.Anything, 10).Return([]*finance.PayoutRecomputeJob{job}, nil)
		queue.On("Claim", mock.Anything, job.ID).Return(false, errors.New("deadlock"))

		assert.Zero(t, p.ProcessBatch(ctx))
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}

func TestRecomputeProcessor_Cleanup(t *testing.T) {
	queue, runner := &mockJobQueue{}, &mockRunner{}
	p := NewRecomputeProcessor(queue, runner, RecomputeProcessorConfig{CleanupRetention: 48 * time.Hour}, nil)
	now := time.Now()

	queue.On("DeleteFinishedBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		age := now.Sub(cutoff)
		return age >= 48*time.Hour && age < 49*time.Hour
	})).Return(int64(3), nil).Once()

	p.Cleanup(context.Background())

	queue.AssertExpectations(t)
}

func TestRecomputeProcessor_Defaults(t *testing.T) {
	p := NewRecomputeProcessor(&mockJobQueue{}, &mockRunner{}, RecomputeProcessorConfig{}, nil)

	defaults := DefaultRecomputeProcessorConfig()
	assert.Equal(t, defaults.BatchSize, p.config.BatchSize)
	assert.Equal(t, defaults.PollInterval, p.config.PollInterval)
	assert.Equal(t, defaults.StaleAfter, p.config.StaleAfter)
	assert.False(t, p.config.CleanupEnabled, "cleanup stays opt-in")
}

func TestRecomputeProcessor_StartStop(t *testing.T) {
	queue, runner := &mockJobQueue{}, &mockRunner{}
	p := processorForTest(queue, runner)
	var polls atomic.Int32

	queue.On("ReleaseStale", mock.Anything, mock.Anything).Return(int64(0), nil)
	queue.On("FindReady", mock.Anything, mock.Anything, 10).
		Run(func(mock.Arguments) { polls.Add(1) }).
		Return([]*finance.PayoutRecomputeJob{}, nil)

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, func() bool { return polls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	after := polls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, polls.Load(), "no polls after Stop")
}
