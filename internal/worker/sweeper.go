package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CaseBot_Go/internal/logger"
)

// SweepFunc removes expired state and reports how many records it dropped
type SweepFunc func(ctx context.Context, now time.Time) (int, error)

// Sweeper runs a SweepFunc on a fixed interval until shut down
type Sweeper struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
	now      func() time.Time

	timer    *time.Timer
	shutdown chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewSweeper creates a sweeper; interval must be positive
func NewSweeper(name string, interval time.Duration, sweep SweepFunc) *Sweeper {
	return &Sweeper{
		name:     name,
		interval: interval,
		sweep:    sweep,
		now:      time.Now,
		shutdown: make(chan struct{}),
	}
}

// Start schedules the first sweep
func (w *Sweeper) Start() {
	w.scheduleNext()
}

func (w *Sweeper) scheduleNext() {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdown:
		return
	default:
	}

	w.timer = time.AfterFunc(w.interval, func() {
		// wg.Add happens under mu so Shutdown never waits on a zero counter
		// that is about to grow
		w.mu.Lock()
		select {
		case <-w.shutdown:
			w.mu.Unlock()
			return
		default:
		}
		w.wg.Add(1)
		w.mu.Unlock()

		w.run()
		w.scheduleNext()
	})
}

func (w *Sweeper) run() {
	defer w.wg.Done()

	ctx := context.Background()
	log := logger.FromContext(ctx)
	removed, err := w.sweep(ctx, w.now())
	if err != nil {
		log.Error(LogMsgSweepFailed, "sweeper", w.name, "error", err)
		return
	}
	if removed > 0 {
		log.Info(LogMsgSweepCompleted, "sweeper", w.name, "removed", removed)
	}
}

// Shutdown cancels the pending sweep and waits for a running one
func (w *Sweeper) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down " + w.name)

	w.mu.Lock()
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn(w.name + " shutdown timeout")
		return ctx.Err()
	}
}
