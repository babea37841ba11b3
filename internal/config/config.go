package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"casebot"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogDir      string `env:"LOG_DIR"`

	StoreEngine     string        `env:"STORE_ENGINE" envDefault:"postgres"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	DBMaxConns      int           `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMaxIdleTime   time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	DBMaxLifetime   time.Duration `env:"DB_MAX_LIFETIME" envDefault:"30m"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"data/casebot.db"`
	StartingBalance int64         `env:"STARTING_BALANCE" envDefault:"10000"`
	AdminIDs        []int64       `env:"ADMIN_IDS" envSeparator:","`

	CatalogPath       string        `env:"CATALOG_PATH" envDefault:"configs/catalog.json"`
	CatalogSync       bool          `env:"CATALOG_SYNC" envDefault:"true"`
	CatalogCacheSize  int           `env:"CATALOG_CACHE_SIZE" envDefault:"256"`
	CatalogCacheTTL   time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	IdentityCacheSize int           `env:"USER_CACHE_SIZE" envDefault:"1000"`
	IdentityCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"15m"`
	DialogTTL         time.Duration `env:"ADMIN_DIALOG_TTL" envDefault:"10m"`

	EventMaxRetries    int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay    time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	EventDeadLetter    string        `env:"EVENT_DEAD_LETTER_PATH" envDefault:"logs/deadletter.jsonl"`
	EventWorkers       int           `env:"EVENT_WORKERS" envDefault:"4"`
	EventQueueSize     int           `env:"EVENT_QUEUE_SIZE" envDefault:"256"`
	AMQPURL            string        `env:"AMQP_URL"`
	AMQPExchange       string        `env:"AMQP_EXCHANGE" envDefault:"casebot.events"`
	IdempotencyBackend string        `env:"IDEMPOTENCY_BACKEND" envDefault:"bolt"`
	IdempotencyPath    string        `env:"IDEMPOTENCY_BOLT_PATH" envDefault:"data/idempotency.db"`
	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	RedisURL           string        `env:"REDIS_URL"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads .env (when present) and the process environment, then validates
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads the environment without validating
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnv, err)
	}
	cfg.StoreEngine = strings.ToLower(strings.TrimSpace(cfg.StoreEngine))
	cfg.IdempotencyBackend = strings.ToLower(strings.TrimSpace(cfg.IdempotencyBackend))
	return &cfg, nil
}

// Validate checks that the selected engine and backends have what they need.
// The engine is never inferred from which settings happen to be present.
func (c *Config) Validate() error {
	var errs []error

	if c.APIKey == "" {
		errs = append(errs, errors.New(ErrMsgAPIKeyRequired))
	}
	if c.Port < 0 || c.Port > MaxPort {
		errs = append(errs, fmt.Errorf(ErrFmtInvalidPort, c.Port))
	}
	if c.StartingBalance < 0 {
		errs = append(errs, errors.New(ErrMsgNegativeBalance))
	}
	if c.EventWorkers <= 0 {
		errs = append(errs, errors.New(ErrMsgNonPositiveWorker))
	}

	switch c.StoreEngine {
	case EnginePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New(ErrMsgDatabaseURL))
		}
	case EngineSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New(ErrMsgSQLitePath))
		}
	case EngineMemory:
	default:
		errs = append(errs, fmt.Errorf(ErrFmtUnknownEngine, c.StoreEngine))
	}

	switch c.IdempotencyBackend {
	case IdempotencyBolt:
		if c.IdempotencyPath == "" {
			errs = append(errs, errors.New(ErrMsgBoltPath))
		}
	case IdempotencyRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New(ErrMsgRedisURL))
		}
	case IdempotencyNone:
	default:
		errs = append(errs, fmt.Errorf(ErrFmtUnknownBackend, c.IdempotencyBackend))
	}

	return errors.Join(errs...)
}

// Warnings lists non-fatal issues worth logging at startup
func (c *Config) Warnings() []string {
	var warnings []string
	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, WarnMsgExampleAPIKey)
	}
	if strings.Contains(c.DatabaseURL, ExampleDBPassword) {
		warnings = append(warnings, WarnMsgExampleDBPassword)
	}
	if len(c.AdminIDs) == 0 {
		warnings = append(warnings, WarnMsgNoAdmins)
	}
	if c.StoreEngine == EngineMemory {
		warnings = append(warnings, WarnMsgMemoryEngine)
	}
	return warnings
}
