package concurrency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockManager_SameKeySameMutex(t *testing.T) {
	lm := NewLockManager()
	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}

func TestLockManager_SerializesKey(t *testing.T) {
	lm := NewLockManager()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := lm.Lock("user:1")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockManager_LockContext(t *testing.T) {
	lm := NewLockManager()

	unlock := lm.Lock("k")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := lm.LockContext(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	release, err := lm.LockContext(context.Background(), "k")
	require.NoError(t, err)
	release()

	// the abandoned waiter must not keep the lock
	release, err = lm.LockContext(context.Background(), "k")
	require.NoError(t, err)
	release()
}
