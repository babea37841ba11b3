package config

import "time"

// Store engines
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
	EngineMemory   = "memory"
)

// Idempotency backends
const (
	IdempotencyBolt  = "bolt"
	IdempotencyRedis = "redis"
	IdempotencyNone  = "none"
)

// Defaults that are not expressible as envDefault tags
const (
	DefaultShutdownTimeout = 30 * time.Second
	MaxPort                = 65535
)

// Insecure example values shipped in .env.example
const (
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
	ExampleDBPassword = "change_this_secure_password"
)

// Error Messages
const (
	ErrMsgParseEnv          = "failed to parse environment: %w"
	ErrMsgAPIKeyRequired    = "API_KEY environment variable must be set for security"
	ErrFmtInvalidPort       = "invalid PORT value %d"
	ErrFmtUnknownEngine     = "unknown STORE_ENGINE %q (want postgres, sqlite or memory)"
	ErrMsgDatabaseURL       = "DATABASE_URL is required when STORE_ENGINE=postgres"
	ErrMsgSQLitePath        = "SQLITE_PATH is required when STORE_ENGINE=sqlite"
	ErrFmtUnknownBackend    = "unknown IDEMPOTENCY_BACKEND %q (want bolt, redis or none)"
	ErrMsgBoltPath          = "IDEMPOTENCY_BOLT_PATH is required for the bolt backend"
	ErrMsgRedisURL          = "REDIS_URL is required for the redis backend"
	ErrMsgNegativeBalance   = "STARTING_BALANCE must not be negative"
	ErrMsgNonPositiveWorker = "EVENT_WORKERS must be positive"
)

// Warnings
const (
	WarnMsgExampleAPIKey     = "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32"
	WarnMsgExampleDBPassword = "DATABASE_URL appears to contain the example password"
	WarnMsgNoAdmins          = "ADMIN_IDS is empty; admin endpoints will reject every caller"
	WarnMsgMemoryEngine      = "STORE_ENGINE=memory keeps all balances in process memory"
)
