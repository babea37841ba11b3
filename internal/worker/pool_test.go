package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10)
	pool.Start()

	job := &testJob{executed: &executed}
	require.NoError(t, pool.Enqueue(context.Background(), job))
	require.NoError(t, pool.Enqueue(context.Background(), job))

	require.NoError(t, pool.Stop(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&executed), "Stop drains queued jobs")
}

func TestPool_StopReleasesWorkers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		pool := NewPool(4, 8)
		pool.Start()
		for i := 0; i < 8; i++ {
			require.NoError(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
		}
		require.NoError(t, pool.Stop(context.Background()))
	})
}

func TestPool_StoppedRejectsJobs(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()
	require.NoError(t, pool.Stop(context.Background()))

	assert.ErrorIs(t, pool.Enqueue(context.Background(), JobFunc(func(context.Context) error { return nil })), ErrPoolStopped)
	assert.ErrorIs(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })), ErrPoolStopped)
	assert.NoError(t, pool.Stop(context.Background()), "second Stop is harmless")
}

func TestPool_TryEnqueueFull(t *testing.T) {
	pool := NewPool(1, 1)
	// not started, so the single slot stays occupied
	noop := JobFunc(func(context.Context) error { return nil })
	require.NoError(t, pool.TryEnqueue(noop))
	assert.ErrorIs(t, pool.TryEnqueue(noop), ErrQueueFull)
	assert.Equal(t, 1, pool.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Enqueue(ctx, noop), context.DeadlineExceeded)

	pool.Start()
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	var ran int32
	pool := NewPool(1, 4)
	pool.Start()

	require.NoError(t, pool.Enqueue(context.Background(), JobFunc(func(context.Context) error { return errors.New("boom") })))
	require.NoError(t, pool.Enqueue(context.Background(), JobFunc(func(context.Context) error { panic("kaboom") })))
	require.NoError(t, pool.Enqueue(context.Background(), &testJob{executed: &ran}))

	require.NoError(t, pool.Stop(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestPool_JobTimeout(t *testing.T) {
	pool := NewPool(1, 1).WithJobTimeout(10 * time.Millisecond)
	pool.Start()

	var sawDeadline atomic.Bool
	require.NoError(t, pool.Enqueue(context.Background(), JobFunc(func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})))
	require.NoError(t, pool.Stop(context.Background()))
	assert.True(t, sawDeadline.Load())
}

func TestPool_StopTimeout(t *testing.T) {
	pool := NewPool(1, 1).WithJobTimeout(0)
	pool.Start()

	release := make(chan struct{})
	require.NoError(t, pool.Enqueue(context.Background(), JobFunc(func(context.Context) error {
		<-release
		return nil
	})))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)
	close(release)
}
