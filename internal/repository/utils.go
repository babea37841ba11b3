package repository

import (
	"context"
	"errors"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/logger"
)

// ErrTxClosed is returned by engines when a finished transaction is used again
var ErrTxClosed = errors.New(domain.ErrMsgTxClosed)

// SafeRollback rolls back a transaction and logs any error.
// Rollback after Commit is a no-op for every engine.
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}
