// Package storetest holds the behavioural suite every storage engine must pass.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// StartingBalance is the balance used by the suite when creating accounts
const StartingBalance int64 = 10000

// Factory returns a fresh, migrated, empty store
type Factory func(t *testing.T) repository.Store

// Fixture is the catalog seeded by SeedCatalog
type Fixture struct {
	Apple    domain.Item
	Diamond  domain.Item
	FoodCase domain.Case
	OldCase  domain.Case
}

// SeedCatalog writes a small catalog into store
func SeedCatalog(t *testing.T, store repository.Store) Fixture {
	t.Helper()
	ctx := context.Background()

	f := Fixture{
		Apple:   domain.Item{Name: "Apple", Icon: "🍎", Rarity: domain.RarityCommon, Category: domain.CategoryFood, Price: 10, SellPrice: 5},
		Diamond: domain.Item{Name: "Diamond", Icon: "💎", Rarity: domain.RarityRare, Category: domain.CategoryResources, Price: 150, SellPrice: 75},
		FoodCase: domain.Case{
			Name: "Food Case", Price: 250, Active: true,
			Weights: domain.RarityWeights{domain.RarityCommon: 70, domain.RarityRare: 30},
		},
		OldCase: domain.Case{
			Name: "Retired Case", Price: 100, Active: false,
			Weights: domain.RarityWeights{domain.RarityCommon: 1},
		},
	}
	require.NoError(t, store.UpsertItem(ctx, &f.Apple))
	require.NoError(t, store.UpsertItem(ctx, &f.Diamond))
	require.NoError(t, store.UpsertCase(ctx, &f.FoodCase))
	require.NoError(t, store.UpsertCase(ctx, &f.OldCase))
	return f
}

// Run executes the full suite against stores produced by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("CatalogUpsertByName", func(t *testing.T) { testCatalogUpsert(t, newStore(t)) })
	t.Run("UpsertAccount", func(t *testing.T) { testUpsertAccount(t, newStore(t)) })
	t.Run("CommitMakesWritesVisible", func(t *testing.T) { testCommit(t, newStore(t)) })
	t.Run("RollbackDiscardsWrites", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("RemoveInventoryUnit", func(t *testing.T) { testRemoveInventoryUnit(t, newStore(t)) })
	t.Run("LedgerOrdering", func(t *testing.T) { testLedgerOrdering(t, newStore(t)) })
	t.Run("ConcurrentDebitsSerialize", func(t *testing.T) { testConcurrentDebits(t, newStore(t)) })
	t.Run("ResetAndStats", func(t *testing.T) { testResetAndStats(t, newStore(t)) })
}

func testCatalogUpsert(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	assert.NotZero(t, f.Apple.ID)
	assert.NotEqual(t, f.Apple.ID, f.Diamond.ID)

	again := domain.Item{Name: "Apple", Rarity: domain.RarityCommon, Category: domain.CategoryFood, Price: 12, SellPrice: 6}
	require.NoError(t, store.UpsertItem(ctx, &again))
	assert.Equal(t, f.Apple.ID, again.ID)

	got, err := store.GetItem(ctx, f.Apple.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(12), got.Price)

	missing, err := store.GetItem(ctx, 987654)
	require.NoError(t, err)
	assert.Nil(t, missing)

	c, err := store.GetCase(ctx, f.FoodCase.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(70), c.Weights[domain.RarityCommon])
	assert.Equal(t, int64(30), c.Weights[domain.RarityRare])

	active, err := store.ListActiveCases(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Food Case", active[0].Name)

	all, err := store.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[1].Active)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func testUpsertAccount(t *testing.T, store repository.Store) {
	ctx := context.Background()

	acc, created, err := store.UpsertAccount(ctx, 42, "steve", StartingBalance)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, StartingBalance, acc.Balance)
	assert.Equal(t, 1, acc.Level)

	acc, created, err = store.UpsertAccount(ctx, 42, "steve_renamed", StartingBalance)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "steve_renamed", acc.Username)

	txns, err := store.ListTransactions(ctx, 42, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1, "starting bonus is written once")
	assert.Equal(t, domain.TransactionReward, txns[0].Type)
	assert.Equal(t, StartingBalance, txns[0].Amount)

	missing, err := store.GetAccount(ctx, 43)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func openOnce(ctx context.Context, t *testing.T, store repository.Store, userID int64, c domain.Case, item domain.Item) (int64, error) {
	t.Helper()
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, userID)
	if err != nil {
		return 0, err
	}
	if acc.Balance < c.Price {
		return 0, domain.ErrInsufficientFunds
	}
	acc.Balance -= c.Price
	acc.Experience += c.Price / 10
	if err := tx.UpdateAccount(ctx, acc); err != nil {
		return 0, err
	}
	if err := tx.AppendTransaction(ctx, &domain.Transaction{UserID: userID, Amount: -c.Price, Type: domain.TransactionPurchase, Description: "Opened case: " + c.Name}); err != nil {
		return 0, err
	}
	qty, err := tx.AddInventoryUnit(ctx, userID, item.ID)
	if err != nil {
		return 0, err
	}
	if err := tx.AppendOpening(ctx, &domain.OpeningRecord{UserID: userID, CaseID: c.ID, ItemID: item.ID}); err != nil {
		return 0, err
	}
	return qty, tx.Commit(ctx)
}

func testCommit(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 1, "alex", 1000)
	require.NoError(t, err)

	qty, err := openOnce(ctx, t, store, 1, f.FoodCase, f.Apple)
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty)

	qty, err = openOnce(ctx, t, store, 1, f.FoodCase, f.Apple)
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty)

	acc, err := store.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), acc.Balance)
	assert.Equal(t, int64(50), acc.Experience)

	inv, err := store.GetInventory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, int64(2), inv[0].Quantity)
	assert.Equal(t, "Apple", inv[0].Item.Name)
	assert.Equal(t, domain.RarityCommon, inv[0].Item.Rarity)

	opened, err := store.CountOpenings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), opened)
}

func testRollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 1, "alex", 1000)
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	acc, err := tx.GetAccountForUpdate(ctx, 1)
	require.NoError(t, err)
	acc.Balance = 1
	require.NoError(t, tx.UpdateAccount(ctx, acc))
	_, err = tx.AddInventoryUnit(ctx, 1, f.Diamond.ID)
	require.NoError(t, err)
	require.NoError(t, tx.AppendTransaction(ctx, &domain.Transaction{UserID: 1, Amount: -999, Type: domain.TransactionPurchase}))
	require.NoError(t, tx.Rollback(ctx))

	got, err := store.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Balance)

	inv, err := store.GetInventory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, inv)

	txns, err := store.ListTransactions(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	// Rollback after Commit is harmless
	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetAccountForUpdate(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, tx.Rollback(ctx))
}

func testRemoveInventoryUnit(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 7, "sam", 1000)
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetAccountForUpdate(ctx, 7)
	require.NoError(t, err)
	_, err = tx.RemoveInventoryUnit(ctx, 7, f.Apple.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)
	require.NoError(t, tx.Rollback(ctx))

	_, err = openOnce(ctx, t, store, 7, f.FoodCase, f.Apple)
	require.NoError(t, err)
	_, err = openOnce(ctx, t, store, 7, f.FoodCase, f.Apple)
	require.NoError(t, err)

	for _, want := range []int64{1, 0} {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.GetAccountForUpdate(ctx, 7)
		require.NoError(t, err)
		left, err := tx.RemoveInventoryUnit(ctx, 7, f.Apple.ID)
		require.NoError(t, err)
		assert.Equal(t, want, left)
		require.NoError(t, tx.Commit(ctx))
	}

	inv, err := store.GetInventory(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, inv, "entry is deleted when quantity reaches zero")
}

func testLedgerOrdering(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 3, "kai", 5000)
	require.NoError(t, err)
	_, _, err = store.UpsertAccount(ctx, 4, "other", 5000)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := openOnce(ctx, t, store, 3, f.FoodCase, f.Apple)
		require.NoError(t, err)
	}

	txns, err := store.ListTransactions(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Greater(t, txns[0].ID, txns[1].ID, "newest first")
	for _, txn := range txns {
		assert.Equal(t, int64(3), txn.UserID)
		assert.Equal(t, domain.TransactionPurchase, txn.Type)
		assert.Equal(t, -f.FoodCase.Price, txn.Amount)
	}

	all, err := store.ListTransactions(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	var sum int64
	for _, txn := range all {
		sum += txn.Amount
	}
	acc, err := store.GetAccount(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, acc.Balance, sum, "balance equals the ledger sum")
}

func testConcurrentDebits(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 9, "racer", f.FoodCase.Price)
	require.NoError(t, err)

	const workers = 4
	results := make(chan error, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			_, err := openOnce(cctx, t, store, 9, f.FoodCase, f.Apple)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var ok, broke int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrInsufficientFunds):
			broke++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, broke)

	acc, err := store.GetAccount(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)
}

func testResetAndStats(t *testing.T, store repository.Store) {
	ctx := context.Background()
	f := SeedCatalog(t, store)
	_, _, err := store.UpsertAccount(ctx, 1, "a", 1000)
	require.NoError(t, err)
	_, _, err = store.UpsertAccount(ctx, 2, "b", 1000)
	require.NoError(t, err)
	_, err = openOnce(ctx, t, store, 1, f.FoodCase, f.Diamond)
	require.NoError(t, err)

	stats, err := store.GetSystemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1750), stats.TotalBalance)
	assert.Equal(t, int64(1), stats.TotalOpenings)
	assert.Equal(t, int64(1), stats.TotalInventoryUnits)
	assert.Equal(t, int64(2000), stats.TotalCredited)
	assert.Equal(t, int64(250), stats.TotalSpent)

	n, err := store.ResetAllUserData(ctx, StartingBalance)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	acc, err := store.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StartingBalance, acc.Balance)
	assert.Zero(t, acc.Experience)
	assert.Equal(t, 1, acc.Level)

	inv, err := store.GetInventory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, inv)

	stats, err = store.GetSystemStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOpenings)
	assert.Zero(t, stats.TotalInventoryUnits)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2, "catalog survives reset")
}
