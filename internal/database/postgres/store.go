package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on PostgreSQL
type Store struct {
	db *pgxpool.Pool
}

// NewStore wraps an open, migrated pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

var _ repository.Store = (*Store)(nil)

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// storageErr wraps a driver error as a transient storage failure.
// Context cancellation is passed through unchanged.
func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation && pgErr.ConstraintName == constraintBalance {
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientFunds)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
