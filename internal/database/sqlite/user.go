package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// UpsertAccount registers a user on first contact and refreshes last_seen_at afterwards
func (s *Store) UpsertAccount(ctx context.Context, userID int64, username string, startingBalance int64) (*domain.Account, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, storageErr("begin transaction", err)
	}
	etx := &EconomyTx{tx: tx, now: s.nowMillis}
	defer repository.SafeRollback(ctx, etx)

	now := s.nowMillis()
	created := true
	acc, err := scanAccount(tx.QueryRowContext(ctx, `
		INSERT INTO users (user_id, username, balance, experience, level, created_at, last_seen_at)
		VALUES (?, ?, ?, 0, 1, ?, ?)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+accountColumns, userID, username, startingBalance, now, now))
	if errors.Is(err, sql.ErrNoRows) {
		created = false
		acc, err = scanAccount(tx.QueryRowContext(ctx, `
			UPDATE users SET
				username = COALESCE(NULLIF(?, ''), username),
				last_seen_at = ?
			WHERE user_id = ?
			RETURNING `+accountColumns, username, now, userID))
	}
	if err != nil {
		return nil, false, storageErr("upsert account", err)
	}

	if created {
		bonus := &domain.Transaction{
			UserID:      userID,
			Amount:      startingBalance,
			Type:        domain.TransactionReward,
			Description: domain.DescStartingBonus,
		}
		if err := appendTransaction(ctx, tx, now, bonus); err != nil {
			return nil, false, err
		}
	}

	if err := etx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return acc, created, nil
}
