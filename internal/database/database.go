package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the PostgreSQL connection pool. Zero values keep the
// pgx defaults.
type PoolConfig struct {
	URL         string
	MaxConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// NewPool connects and pings before returning, so a bad DATABASE_URL fails
// at startup rather than on the first request.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	if cfg.MaxConns > 0 {
		pgCfg.MaxConns = int32(min(cfg.MaxConns, math.MaxInt32))
	}
	pgCfg.MinConns = min(pgCfg.MaxConns, DefaultMinConnections)
	if cfg.MaxIdleTime > 0 {
		pgCfg.MaxConnIdleTime = cfg.MaxIdleTime
	}
	if cfg.MaxLifetime > 0 {
		pgCfg.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"max_conns", pgCfg.MaxConns,
		"min_conns", pgCfg.MinConns)
	return pool, nil
}
