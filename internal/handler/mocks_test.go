package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseBot_Go/internal/admin"
	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/user"
)

// MockEconomyService mocks economy.Service
type MockEconomyService struct {
	mock.Mock
}

func (m *MockEconomyService) OpenCase(ctx context.Context, userID, caseID int64) (*domain.OpenCaseResult, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpenCaseResult), args.Error(1)
}

func (m *MockEconomyService) SellItem(ctx context.Context, userID, itemID int64) (*domain.SellResult, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellResult), args.Error(1)
}

func (m *MockEconomyService) GetUserSnapshot(ctx context.Context, userID int64) (*domain.UserSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSnapshot), args.Error(1)
}

func (m *MockEconomyService) GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryEntry), args.Error(1)
}

func (m *MockEconomyService) GetCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockEconomyService) GetTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockEconomyService) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockUserService mocks user.Service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, userID int64, username string) (*domain.UserSnapshot, bool, error) {
	args := m.Called(ctx, userID, username)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.UserSnapshot), args.Bool(1), args.Error(2)
}

func (m *MockUserService) Forget() {
	m.Called()
}

func (m *MockUserService) CacheStats() user.CacheStats {
	return m.Called().Get(0).(user.CacheStats)
}

// MockAdminService mocks admin.Service
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) HandleDialog(ctx context.Context, adminID int64, input string) (*admin.DialogReply, error) {
	args := m.Called(ctx, adminID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.DialogReply), args.Error(1)
}

func (m *MockAdminService) AdjustBalance(ctx context.Context, adminID, userID, amount int64, reason string) (*domain.BalanceAdjustment, error) {
	args := m.Called(ctx, adminID, userID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAdjustment), args.Error(1)
}

func (m *MockAdminService) SystemStats(ctx context.Context, adminID int64) (*domain.SystemStats, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemStats), args.Error(1)
}

func (m *MockAdminService) ResetAll(ctx context.Context, adminID int64) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminService) OnReset(hook func(ctx context.Context)) {
	m.Called(hook)
}

// MockPinger mocks the readiness dependency
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
