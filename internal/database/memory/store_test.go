package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
	"github.com/osse101/CaseBot_Go/internal/testing/storetest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Store {
		s := New()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_ResetInvalidatesOpenTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _, err := s.UpsertAccount(ctx, 1, "a", 1000)
	require.NoError(t, err)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	acc, err := tx.GetAccountForUpdate(ctx, 1)
	require.NoError(t, err)
	acc.Balance = 1
	require.NoError(t, tx.UpdateAccount(ctx, acc))

	_, err = s.ResetAllUserData(ctx, 10000)
	require.NoError(t, err)

	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrStorage)

	got, err := s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.Balance)
}

func TestMemoryStore_Closed(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(context.Background()), domain.ErrStorage)
	_, err := s.BeginTx(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestMemoryStore_NegativeBalanceRejected(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _, err := s.UpsertAccount(ctx, 1, "a", 10)
	require.NoError(t, err)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetAccountForUpdate(ctx, 1)
	require.NoError(t, err)
	acc.Balance = -1
	assert.ErrorIs(t, tx.UpdateAccount(ctx, acc), domain.ErrInsufficientFunds)
}
