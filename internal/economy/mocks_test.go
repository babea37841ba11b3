package economy

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRepository) GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryEntry), args.Error(1)
}

func (m *MockRepository) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockRepository) CountOpenings(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.EconomyTx), args.Error(1)
}

// MockTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) GetAccountForUpdate(ctx context.Context, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockTx) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockTx) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTx) AddInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) RemoveInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) AppendOpening(ctx context.Context, rec *domain.OpeningRecord) error {
	return m.Called(ctx, rec).Error(0)
}

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetCase(ctx context.Context, caseID int64) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalog) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalog) ListActiveCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

// MockDrawer
type MockDrawer struct {
	mock.Mock
}

func (m *MockDrawer) Draw(ctx context.Context, c *domain.Case) (*domain.Item, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
