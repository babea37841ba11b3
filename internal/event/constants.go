package event

import "time"

// EventSchemaVersion is the current event envelope version
const EventSchemaVersion = "1.0"

// Retry configuration constants
const (
	// RetryQueueBufferSize is the buffer size for the retry queue
	RetryQueueBufferSize = 1000

	// RetryInitialDelay is the delay before the first retry
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// MetadataRequestID carries the originating request id on published events
const MetadataRequestID = "request_id"

// DeadLetterFilePermissions is the file permission mode for dead-letter files
const DeadLetterFilePermissions = 0o644

// AMQP constants
const (
	AMQPExchangeType = "fanout"
	AMQPContentType  = "application/json"
)

// Log message constants
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventDeadLettered     = "Event dead-lettered"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgAMQPDeliveryFailed    = "AMQP delivery failed"
	LogMsgAMQPConnected         = "Connected to AMQP broker"
)

// Error message constants
const (
	ErrMsgHandlerErrorFormat  = "encountered %d errors while handling event %s: %w"
	ErrMsgAMQPDialFailed      = "failed to connect to AMQP broker: %w"
	ErrMsgAMQPChannelFailed   = "failed to open AMQP channel: %w"
	ErrMsgAMQPExchangeFailed  = "failed to declare exchange %s: %w"
	ErrMsgAMQPPublishFailed   = "failed to publish %s: %w"
	ErrMsgAMQPEnqueueFailed   = "failed to enqueue AMQP delivery for %s: %w"
	ErrMsgEncodeEventFailed   = "failed to encode event %s: %w"
	ErrMsgDecodePayloadFailed = "failed to decode payload as %T: %w"
)

// CalculateRetryDelay calculates the exponential backoff delay for retry attempts.
// Formula: baseDelay * 2^(attempt-1), so 2s, 4s, 8s, 16s, 32s for the default base.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay * time.Duration(1<<(attempt-1))
}
