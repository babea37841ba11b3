package leaktest

import (
	"testing"
	"time"
)

// recorder captures failures instead of failing the enclosing test
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) { r.failed = true }

func TestGoroutineChecker_NoLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		go func() { close(done) }()
		<-done
	})
}

func TestGoroutineChecker_WaitsForSlowExit(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go func() { time.Sleep(50 * time.Millisecond) }()

	checker.Check(0)
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t).WithSettle(20 * time.Millisecond)

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(1)
}

func TestGoroutineChecker_ReportsLeak(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec).WithSettle(20 * time.Millisecond)

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(0)
	if !rec.failed {
		t.Fatal("expected a leak to be reported")
	}
}
