package repository

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// Tx defines the lifecycle shared by every transactional unit
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// EconomyTx is the atomic unit used by case openings, sales and admin
// adjustments. GetAccountForUpdate locks the user's ledger row until the
// transaction ends, so concurrent mutations of one user are serialized.
type EconomyTx interface {
	Tx
	GetAccountForUpdate(ctx context.Context, userID int64) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	AppendTransaction(ctx context.Context, txn *domain.Transaction) error
	// AddInventoryUnit inserts or increments the holding and returns the new quantity.
	AddInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error)
	// RemoveInventoryUnit decrements the holding, deleting it at zero, and
	// returns the remaining quantity. It returns domain.ErrItemNotInInventory
	// when the user holds no unit of the item.
	RemoveInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error)
	AppendOpening(ctx context.Context, rec *domain.OpeningRecord) error
}
