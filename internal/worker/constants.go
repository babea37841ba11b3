package worker

import "time"

// Pool defaults
const (
	DefaultWorkers    = 4
	DefaultJobTimeout = 30 * time.Second
)

// Error messages
const (
	ErrMsgPoolStopped = "worker pool stopped"
	ErrMsgQueueFull   = "worker queue full"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgPoolStopTimeout   = "Worker pool stop timed out"
	LogMsgSweepFailed       = "Sweep failed"
	LogMsgSweepCompleted    = "Sweep completed"
)
