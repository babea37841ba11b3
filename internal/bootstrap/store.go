package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/CaseBot_Go/internal/config"
	"github.com/osse101/CaseBot_Go/internal/database"
	"github.com/osse101/CaseBot_Go/internal/database/memory"
	"github.com/osse101/CaseBot_Go/internal/database/postgres"
	"github.com/osse101/CaseBot_Go/internal/database/sqlite"
	"github.com/osse101/CaseBot_Go/internal/idempotency"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// OpenStore opens the persistent store selected by STORE_ENGINE and applies
// its migrations. Closing the returned store releases the underlying pool.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)

	switch cfg.StoreEngine {
	case config.EnginePostgres:
		store, err = openPostgres(ctx, cfg)
	case config.EngineSQLite:
		if err := ensureParentDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			err = fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
		}
	case config.EngineMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreEngine, cfg.StoreEngine)
	}
	if err != nil {
		return nil, err
	}

	slog.Info(LogMsgStoreOpened, "engine", cfg.StoreEngine)
	return store, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:         cfg.DatabaseURL,
		MaxConns:    cfg.DBMaxConns,
		MaxIdleTime: cfg.DBMaxIdleTime,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}
	if err := database.MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDatabase, err)
	}
	return postgres.NewStore(pool), nil
}

// OpenIdempotencyStore opens the replay store selected by IDEMPOTENCY_BACKEND
func OpenIdempotencyStore(ctx context.Context, cfg *config.Config) (idempotency.Store, error) {
	if cfg.IdempotencyBackend == config.IdempotencyBolt {
		if err := ensureParentDir(cfg.IdempotencyPath); err != nil {
			return nil, err
		}
	}

	store, err := idempotency.Open(ctx, idempotency.Options{
		Backend:  cfg.IdempotencyBackend,
		BoltPath: cfg.IdempotencyPath,
		RedisURL: cfg.RedisURL,
		TTL:      cfg.IdempotencyTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenIdempotency, err)
	}

	slog.Info(LogMsgIdempotencyStoreOpened, "backend", cfg.IdempotencyBackend, "ttl", cfg.IdempotencyTTL)
	return store, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, DirPermission); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedCreateStoreDir, err)
	}
	return nil
}
