package postgres

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// GetSystemStats aggregates economy-wide totals
func (s *Store) GetSystemStats(ctx context.Context) (*domain.SystemStats, error) {
	var st domain.SystemStats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(balance), 0) FROM users),
			(SELECT COUNT(*) FROM opening_history),
			(SELECT COALESCE(SUM(quantity), 0) FROM inventory),
			(SELECT COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) FROM transactions),
			(SELECT COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0) FROM transactions)`,
	).Scan(&st.TotalUsers, &st.TotalBalance, &st.TotalOpenings, &st.TotalInventoryUnits, &st.TotalCredited, &st.TotalSpent)
	if err != nil {
		return nil, storageErr("system stats", err)
	}
	return &st, nil
}

// ResetAllUserData clears player progress while keeping accounts and the catalog
func (s *Store) ResetAllUserData(ctx context.Context, startingBalance int64) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, storageErr("begin transaction", err)
	}
	etx := &EconomyTx{tx: tx}
	defer repository.SafeRollback(ctx, etx)

	if _, err := tx.Exec(ctx, `TRUNCATE inventory, opening_history, transactions RESTART IDENTITY`); err != nil {
		return 0, storageErr("truncate user data", err)
	}
	tag, err := tx.Exec(ctx, `UPDATE users SET balance = $1, experience = 0, level = 1`, startingBalance)
	if err != nil {
		return 0, storageErr("reset accounts", err)
	}
	if err := etx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
