package repository

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// User defines identity bootstrap.
type User interface {
	// UpsertAccount creates the account with startingBalance and a one-time
	// starting-bonus reward transaction, or refreshes username/last_seen_at of
	// an existing one. created reports which happened.
	UpsertAccount(ctx context.Context, userID int64, username string, startingBalance int64) (account *domain.Account, created bool, err error)
	GetAccount(ctx context.Context, userID int64) (*domain.Account, error)
	CountOpenings(ctx context.Context, userID int64) (int64, error)
}
