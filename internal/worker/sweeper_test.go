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

func TestSweeper_RunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	w := NewSweeper("test sweeper", 5*time.Millisecond, func(ctx context.Context, now time.Time) (int, error) {
		runs.Add(1)
		return 1, nil
	})
	w.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no sweeps after shutdown")
}

func TestSweeper_KeepsRunningAfterError(t *testing.T) {
	var runs atomic.Int32
	w := NewSweeper("failing sweeper", 5*time.Millisecond, func(ctx context.Context, now time.Time) (int, error) {
		runs.Add(1)
		return 0, errors.New("disk full")
	})
	w.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))
	assert.NoError(t, w.Shutdown(context.Background()))
}

func TestSweeper_ShutdownStopsTimer(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		w := NewSweeper("idle sweeper", time.Hour, func(context.Context, time.Time) (int, error) { return 0, nil })
		w.Start()
		require.NoError(t, w.Shutdown(context.Background()))
	})
}
