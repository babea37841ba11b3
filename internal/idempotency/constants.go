package idempotency

import "time"

// DefaultTTL is how long a stored response can be replayed
const DefaultTTL = 24 * time.Hour

// DefaultPurgeInterval is how often expired bolt records are swept
const DefaultPurgeInterval = 10 * time.Minute

// RedisKeyPrefix namespaces idempotency keys in a shared redis
const RedisKeyPrefix = "casebot:idem:"

// Bolt file settings
const (
	BoltFileMode    = 0o600
	BoltOpenTimeout = time.Second
)
