// Package economy holds the case-opening and sell orchestrators. Every
// mutation runs inside one repository.EconomyTx scoped to the user's ledger
// row, so a balance check and the debit it guards are never separated.
package economy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/leveling"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// Service defines the interface for economy operations
type Service interface {
	OpenCase(ctx context.Context, userID, caseID int64) (*domain.OpenCaseResult, error)
	SellItem(ctx context.Context, userID, itemID int64) (*domain.SellResult, error)
	GetUserSnapshot(ctx context.Context, userID int64) (*domain.UserSnapshot, error)
	GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error)
	GetCases(ctx context.Context) ([]domain.Case, error)
	GetTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	Shutdown(ctx context.Context) error
}

// Catalog is the read-only catalog access the orchestrators need.
// catalog.Cache satisfies it.
type Catalog interface {
	GetCase(ctx context.Context, caseID int64) (*domain.Case, error)
	GetItem(ctx context.Context, itemID int64) (*domain.Item, error)
	ListActiveCases(ctx context.Context) ([]domain.Case, error)
}

// Drawer turns a case into a concrete reward. lootbox.Picker satisfies it.
type Drawer interface {
	Draw(ctx context.Context, c *domain.Case) (*domain.Item, error)
}

type service struct {
	repo      repository.Economy
	catalog   Catalog
	drawer    Drawer
	publisher event.Publisher
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewService creates a new economy service. publisher may be nil.
func NewService(repo repository.Economy, catalog Catalog, drawer Drawer, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		drawer:    drawer,
		publisher: publisher,
		now:       time.Now,
	}
}

// publish hands events to the publisher off the request path
func (s *service) publish(ctx context.Context, events ...event.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	reqID := logger.GetRequestID(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		bg := context.Background()
		if reqID != "" {
			bg = logger.WithRequestID(bg, reqID)
		}
		for _, evt := range events {
			if reqID != "" {
				evt = evt.WithMetadata(event.MetadataRequestID, reqID)
			}
			s.publisher.PublishWithRetry(bg, evt)
		}
	}()
}

func (s *service) GetUserSnapshot(ctx context.Context, userID int64) (*domain.UserSnapshot, error) {
	if err := requirePositive(userID, "user id"); err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}
	if account == nil {
		return nil, fmt.Errorf(ErrFmtUserNotFound, domain.ErrUserNotFound, userID)
	}
	opened, err := s.repo.CountOpenings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCountOpeningsFailed, err)
	}
	return Snapshot(account, opened), nil
}

// Snapshot builds the client read model. The level is re-derived from
// experience rather than trusted from storage.
func Snapshot(account *domain.Account, casesOpened int64) *domain.UserSnapshot {
	return &domain.UserSnapshot{
		UserID:                account.UserID,
		Username:              account.Username,
		Balance:               account.Balance,
		Experience:            account.Experience,
		Level:                 leveling.LevelFor(account.Experience),
		ExperienceToNextLevel: leveling.ExperienceToNextLevel(account.Experience),
		CasesOpened:           casesOpened,
	}
}

func (s *service) GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error) {
	if err := requirePositive(userID, "user id"); err != nil {
		return nil, err
	}
	entries, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetInventoryFailed, err)
	}
	return entries, nil
}

func (s *service) GetCases(ctx context.Context) ([]domain.Case, error) {
	cases, err := s.catalog.ListActiveCases(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListCasesFailed, err)
	}
	return cases, nil
}

func (s *service) GetTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if err := requirePositive(userID, "user id"); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultTransactionLimit
	case limit > MaxTransactionLimit:
		limit = MaxTransactionLimit
	}
	txns, err := s.repo.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListTransactionsFailed, err)
	}
	return txns, nil
}

func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgEconomyShuttingDown)
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf(ErrMsgShutdownTimedOut, ctx.Err())
	}
}

func requirePositive(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf(ErrFmtNonPositiveID, domain.ErrInvalidInput, what)
	}
	return nil
}
