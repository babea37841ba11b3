package repository

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// Admin defines operator-level access
type Admin interface {
	GetSystemStats(ctx context.Context) (*domain.SystemStats, error)
	// ResetAllUserData restores every account to startingBalance, experience 0,
	// level 1 and clears inventory, opening history and the ledger. The catalog
	// is untouched. Returns the number of accounts reset.
	ResetAllUserData(ctx context.Context, startingBalance int64) (int64, error)
	BeginTx(ctx context.Context) (EconomyTx, error)
}
