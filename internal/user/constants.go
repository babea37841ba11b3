package user

import "time"

// CacheSchemaVersion is the current version of the identity cache schema.
// Increment this when the cached data structure changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cached identities
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long a registration is remembered before the next
// contact refreshes last_seen_at again
const DefaultCacheTTL = 5 * time.Minute

// MaxUsernameLength bounds stored display names
const MaxUsernameLength = 64

// Log messages
const (
	LogMsgRegisterCalled     = "Register called"
	LogMsgUserRegistered     = "User registered"
	LogMsgUserRefreshed      = "User refreshed"
	LogErrFailedToUpsertUser = "Failed to upsert user"
)

// Error messages
const (
	ErrMsgUpsertAccountFailed = "failed to upsert account: %w"
	ErrMsgGetAccountFailed    = "failed to get account: %w"
	ErrMsgCountOpeningsFailed = "failed to count openings: %w"
	ErrFmtInvalidUserID       = "%w: user id must be positive"
	ErrFmtUsernameTooLong     = "%w: username longer than %d characters"
)
