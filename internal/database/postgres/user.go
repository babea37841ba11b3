package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// UpsertAccount registers a user on first contact and refreshes last_seen_at afterwards
func (s *Store) UpsertAccount(ctx context.Context, userID int64, username string, startingBalance int64) (*domain.Account, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, false, storageErr("begin transaction", err)
	}
	etx := &EconomyTx{tx: tx}
	defer repository.SafeRollback(ctx, etx)

	acc, err := scanAccount(tx.QueryRow(ctx, `
		INSERT INTO users (user_id, username, balance, experience, level)
		VALUES ($1, $2, $3, 0, 1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+accountColumns, userID, username, startingBalance))
	created := true
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		acc, err = scanAccount(tx.QueryRow(ctx, `
			UPDATE users SET
				username = COALESCE(NULLIF($2, ''), username),
				last_seen_at = NOW()
			WHERE user_id = $1
			RETURNING `+accountColumns, userID, username))
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
		if err := etx.AppendTransaction(ctx, bonus); err != nil {
			return nil, false, err
		}
	}

	if err := etx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return acc, created, nil
}
