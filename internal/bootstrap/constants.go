package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingCaseBot     = "Starting CaseBot"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/deadletter.jsonl"

	// AMQPJobTimeout bounds a single broker publish
	AMQPJobTimeout = 5 * time.Second

	// AMQPDeadLetterSuffix is appended to the dead-letter file name for broker rejects
	AMQPDeadLetterSuffix = "_amqp"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgAMQPSinkConnected              = "AMQP event sink connected"
	LogMsgAMQPSinkDisabled               = "AMQP_URL not set, broker fan-out disabled"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedConnectAMQP              = "failed to connect AMQP sink"
)

// =============================================================================
// Store Messages
// =============================================================================

const (
	LogMsgStoreOpened            = "Store opened"
	ErrMsgFailedConnectDatabase  = "failed to connect to database"
	ErrMsgFailedMigrateDatabase  = "failed to migrate database"
	ErrMsgFailedOpenSQLite       = "failed to open sqlite store"
	ErrMsgFailedCreateStoreDir   = "failed to create store directory"
	ErrMsgUnknownStoreEngine     = "unknown store engine"
	ErrMsgFailedOpenIdempotency  = "failed to open idempotency store"
	LogMsgIdempotencyStoreOpened = "Idempotency store opened"
	IdempotencySweepInterval     = 10 * time.Minute
	IdempotencySweeperName       = "idempotency-purge"
)

// =============================================================================
// Catalog Sync Messages
// =============================================================================

const (
	LogMsgSyncingCatalog    = "Syncing catalog from JSON config..."
	LogMsgCatalogSynced     = "Catalog synced successfully"
	LogMsgCatalogUnchanged  = "Catalog config unchanged, sync skipped"
	LogMsgCatalogSyncOff    = "Catalog sync disabled, using stored catalog"
	ErrMsgFailedLoadCatalog = "failed to load catalog config"
	ErrMsgInvalidCatalog    = "invalid catalog config"
	ErrMsgFailedSyncCatalog = "failed to sync catalog to store"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgSweeperShutdownFailed      = "Sweeper shutdown failed"
	LogMsgAMQPPoolStopFailed         = "AMQP worker pool stop failed"
	LogMsgCloseFailed                = "Close failed"

	// Service names for shutdown logging
	ServiceNameEconomy = "economy"
)

// Shutdown log message format (service name will be prepended)
const (
	LogMsgServiceShutdownFailed = " service shutdown failed"
)
