package middleware

// Idempotency headers
const (
	// HeaderIdempotencyKey is the client-chosen retry key
	HeaderIdempotencyKey = "Idempotency-Key"

	// HeaderIdempotentReplayed marks a response served from the store
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// Limits
const (
	// MaxIdempotencyKeyLength caps the header value
	MaxIdempotencyKeyLength = 255

	// LockStripes bounds how many distinct lock keys the middleware creates
	LockStripes = 256
)

// Error Messages
const (
	ErrMsgKeyTooLong       = "Idempotency-Key exceeds 255 characters"
	ErrMsgKeyReused        = "Idempotency-Key was already used with a different request"
	ErrMsgReadBodyFailed   = "Failed to read request body"
	ErrMsgStoreUnavailable = "Idempotency store unavailable"
	ErrMsgRequestCancelled = "Request cancelled"
)

// Log Messages
const (
	LogMsgReplayed       = "Replaying stored response"
	LogMsgLookupFailed   = "Idempotency lookup failed"
	LogMsgSaveFailed     = "Failed to store idempotent response"
	LogMsgFingerprintHit = "Idempotency key reused with different payload"
)
