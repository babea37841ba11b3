package concurrency

import (
	"context"
	"sync"
)

// LockManager handles named locks. Locks are created on first use and kept
// for the life of the manager.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Lock acquires the named lock and returns its release function
func (lm *LockManager) Lock(key string) func() {
	mu := lm.GetLock(key)
	mu.Lock()
	return mu.Unlock
}

// LockContext acquires the named lock unless ctx ends first
func (lm *LockManager) LockContext(ctx context.Context, key string) (func(), error) {
	mu := lm.GetLock(key)
	if mu.TryLock() {
		return mu.Unlock, nil
	}

	acquired := make(chan struct{})
	abandoned := make(chan struct{})
	go func() {
		mu.Lock()
		select {
		case acquired <- struct{}{}:
		case <-abandoned:
			mu.Unlock()
		}
	}()

	select {
	case <-acquired:
		return mu.Unlock, nil
	case <-ctx.Done():
		close(abandoned)
		return nil, ctx.Err()
	}
}
