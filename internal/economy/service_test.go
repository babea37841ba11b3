package economy

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
)

var (
	testCase = &domain.Case{
		ID: 3, Name: "Resource Case", Price: 250, Active: true,
		Weights: domain.RarityWeights{domain.RarityCommon: 50, domain.RarityUncommon: 40, domain.RarityRare: 10},
	}
	testItem = &domain.Item{ID: 11, Name: "Iron Ingot", Rarity: domain.RarityUncommon, Price: 40, SellPrice: 20}
)

type fixture struct {
	repo    *MockRepository
	tx      *MockTx
	catalog *MockCatalog
	drawer  *MockDrawer
	pub     *recordingPublisher
	svc     *service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(MockRepository),
		tx:      new(MockTx),
		catalog: new(MockCatalog),
		drawer:  new(MockDrawer),
		pub:     &recordingPublisher{},
	}
	f.svc = NewService(f.repo, f.catalog, f.drawer, f.pub).(*service)
	f.svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func (f *fixture) expectTx(account *domain.Account) {
	f.repo.On("BeginTx", mock.Anything).Return(f.tx, nil)
	f.tx.On("GetAccountForUpdate", mock.Anything, account.UserID).Return(account, nil)
	f.tx.On("Rollback", mock.Anything).Return(nil)
}

func TestOpenCase_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
	f.drawer.On("Draw", ctx, testCase).Return(testItem, nil)
	f.expectTx(&domain.Account{UserID: 1, Balance: 1000, Experience: 0, Level: 1})
	f.tx.On("UpdateAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Balance == 750 && a.Experience == 25 && a.Level == 1
	})).Return(nil)
	f.tx.On("AppendTransaction", ctx, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Amount == -250 && txn.Type == domain.TransactionPurchase && txn.Description == "Opened case: Resource Case"
	})).Return(nil)
	f.tx.On("AddInventoryUnit", ctx, int64(1), int64(11)).Return(int64(2), nil)
	f.tx.On("AppendOpening", ctx, &domain.OpeningRecord{UserID: 1, CaseID: 3, ItemID: 11}).Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	res, err := f.svc.OpenCase(ctx, 1, 3)
	require.NoError(t, err)
	require.NoError(t, f.svc.Shutdown(ctx))

	assert.Equal(t, int64(750), res.NewBalance)
	assert.Equal(t, int64(25), res.ExperienceGained)
	assert.Equal(t, 1, res.NewLevel)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, int64(2), res.Quantity)
	assert.Equal(t, "Iron Ingot", res.Item.Name)
	assert.Equal(t, []event.Type{event.CaseOpened}, f.pub.types())
	f.tx.AssertExpectations(t)
}

func TestOpenCase_LevelUpPublishesEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
	f.drawer.On("Draw", ctx, testCase).Return(testItem, nil)
	f.expectTx(&domain.Account{UserID: 1, Balance: 1000, Experience: 990, Level: 1})
	f.tx.On("UpdateAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Experience == 1015 && a.Level == 2
	})).Return(nil)
	f.tx.On("AppendTransaction", ctx, mock.Anything).Return(nil)
	f.tx.On("AddInventoryUnit", ctx, int64(1), int64(11)).Return(int64(1), nil)
	f.tx.On("AppendOpening", ctx, mock.Anything).Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	res, err := f.svc.OpenCase(ctx, 1, 3)
	require.NoError(t, err)
	require.NoError(t, f.svc.Shutdown(ctx))

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, []event.Type{event.CaseOpened, event.LevelUp}, f.pub.types())
}

func TestOpenCase_CaseNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(99)).Return(nil, nil)
	inactive := *testCase
	inactive.ID = 4
	inactive.Active = false
	f.catalog.On("GetCase", ctx, int64(4)).Return(&inactive, nil)

	_, err := f.svc.OpenCase(ctx, 1, 99)
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)
	_, err = f.svc.OpenCase(ctx, 1, 4)
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)
	f.repo.AssertNotCalled(t, "BeginTx", mock.Anything)
	f.drawer.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything)
}

func TestOpenCase_InsufficientFundsBeforeConfigurationErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
	f.drawer.On("Draw", ctx, testCase).Return(nil, fmt.Errorf("%w: rare", domain.ErrEmptyRarityPool))
	f.expectTx(&domain.Account{UserID: 1, Balance: 249})

	_, err := f.svc.OpenCase(ctx, 1, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.NotErrorIs(t, err, domain.ErrEmptyRarityPool)
	f.tx.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
	f.tx.AssertCalled(t, "Rollback", mock.Anything)
}

func TestOpenCase_ConfigurationErrorsAbortWithoutMutation(t *testing.T) {
	for _, drawErr := range []error{domain.ErrInvalidDistribution, domain.ErrEmptyRarityPool} {
		t.Run(drawErr.Error(), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
			f.drawer.On("Draw", ctx, testCase).Return(nil, drawErr)
			f.expectTx(&domain.Account{UserID: 1, Balance: 1000})

			_, err := f.svc.OpenCase(ctx, 1, 3)
			assert.ErrorIs(t, err, drawErr)
			assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
			f.tx.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything)
			f.tx.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}

func TestOpenCase_StorageFailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
	f.drawer.On("Draw", ctx, testCase).Return(testItem, nil)
	f.expectTx(&domain.Account{UserID: 1, Balance: 1000})
	f.tx.On("UpdateAccount", ctx, mock.Anything).Return(nil)
	f.tx.On("AppendTransaction", ctx, mock.Anything).Return(nil)
	f.tx.On("AddInventoryUnit", ctx, int64(1), int64(11)).Return(int64(0), fmt.Errorf("%w: connection reset", domain.ErrStorage))

	_, err := f.svc.OpenCase(ctx, 1, 3)
	require.NoError(t, f.svc.Shutdown(ctx))
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
	f.tx.AssertCalled(t, "Rollback", mock.Anything)
	assert.Empty(t, f.pub.types())
}

func TestOpenCase_UnknownUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetCase", ctx, int64(3)).Return(testCase, nil)
	f.drawer.On("Draw", ctx, testCase).Return(testItem, nil)
	f.repo.On("BeginTx", ctx).Return(f.tx, nil)
	f.tx.On("GetAccountForUpdate", ctx, int64(5)).Return(nil, nil)
	f.tx.On("Rollback", ctx).Return(nil)

	_, err := f.svc.OpenCase(ctx, 5, 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOpenCase_InvalidIDs(t *testing.T) {
	f := newFixture()
	_, err := f.svc.OpenCase(context.Background(), 0, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.OpenCase(context.Background(), 1, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.catalog.AssertNotCalled(t, "GetCase", mock.Anything, mock.Anything)
}

func TestSellItem_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetItem", ctx, int64(11)).Return(testItem, nil)
	f.expectTx(&domain.Account{UserID: 1, Balance: 700, Experience: 25, Level: 1})
	f.tx.On("RemoveInventoryUnit", ctx, int64(1), int64(11)).Return(int64(0), nil)
	f.tx.On("UpdateAccount", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Balance == 720 && a.Experience == 25
	})).Return(nil)
	f.tx.On("AppendTransaction", ctx, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Amount == 20 && txn.Type == domain.TransactionSell
	})).Return(nil)
	f.tx.On("Commit", ctx).Return(nil)

	res, err := f.svc.SellItem(ctx, 1, 11)
	require.NoError(t, err)
	require.NoError(t, f.svc.Shutdown(ctx))

	assert.Equal(t, int64(20), res.CreditedAmount)
	assert.Equal(t, int64(720), res.NewBalance)
	assert.Zero(t, res.RemainingQuantity)
	assert.Equal(t, []event.Type{event.ItemSold}, f.pub.types())
}

func TestSellItem_NotHeld(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.On("GetItem", ctx, int64(11)).Return(testItem, nil)
	f.catalog.On("GetItem", ctx, int64(404)).Return(nil, nil)
	f.expectTx(&domain.Account{UserID: 1, Balance: 700})
	f.tx.On("RemoveInventoryUnit", ctx, int64(1), int64(11)).Return(int64(0), domain.ErrItemNotInInventory)

	_, err := f.svc.SellItem(ctx, 1, 11)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)
	f.tx.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything)

	_, err = f.svc.SellItem(ctx, 1, 404)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)
}

func TestGetUserSnapshot_DerivesLevel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// stored level is stale; the snapshot trusts experience
	f.repo.On("GetAccount", ctx, int64(1)).Return(&domain.Account{UserID: 1, Balance: 5, Experience: 2500, Level: 1}, nil)
	f.repo.On("CountOpenings", ctx, int64(1)).Return(int64(7), nil)
	f.repo.On("GetAccount", ctx, int64(2)).Return(nil, nil)

	snap, err := f.svc.GetUserSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Level)
	assert.Equal(t, int64(500), snap.ExperienceToNextLevel)
	assert.Equal(t, int64(7), snap.CasesOpened)

	_, err = f.svc.GetUserSnapshot(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetTransactions_ClampsLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("ListTransactions", ctx, int64(1), DefaultTransactionLimit).Return([]domain.Transaction{}, nil).Once()
	f.repo.On("ListTransactions", ctx, int64(1), MaxTransactionLimit).Return([]domain.Transaction{}, nil).Once()
	f.repo.On("ListTransactions", ctx, int64(1), 10).Return(nil, errors.New("boom")).Once()

	_, err := f.svc.GetTransactions(ctx, 1, 0)
	require.NoError(t, err)
	_, err = f.svc.GetTransactions(ctx, 1, 100000)
	require.NoError(t, err)
	_, err = f.svc.GetTransactions(ctx, 1, 10)
	assert.ErrorContains(t, err, "boom")
	f.repo.AssertExpectations(t)
}

func TestShutdown_Timeout(t *testing.T) {
	f := newFixture()
	f.svc.wg.Add(1)
	defer f.svc.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.svc.Shutdown(ctx), context.DeadlineExceeded)
}
