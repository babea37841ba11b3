package repository

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// Economy defines the data access required by the economy service.
// GetAccount returns (nil, nil) for unknown users.
type Economy interface {
	GetAccount(ctx context.Context, userID int64) (*domain.Account, error)
	GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	CountOpenings(ctx context.Context, userID int64) (int64, error)
	BeginTx(ctx context.Context) (EconomyTx, error)
}
