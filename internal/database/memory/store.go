// Package memory is an in-process storage engine. It serializes mutations of
// one user with a per-user lock held for the life of a transaction and stages
// writes until commit. Data does not survive a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/CaseBot_Go/internal/concurrency"
	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

var errClosed = errors.New("memory store is closed")

type holding struct {
	Quantity   int64
	ObtainedAt time.Time
	IsFavorite bool
}

// Store keeps all engine state in maps guarded by mu
type Store struct {
	mu sync.RWMutex

	items      map[int64]domain.Item
	itemByName map[string]int64
	cases      map[int64]domain.Case
	caseByName map[string]int64

	accounts     map[int64]domain.Account
	inventory    map[int64]map[int64]holding
	transactions []domain.Transaction
	openings     []domain.OpeningRecord

	nextItemID    int64
	nextCaseID    int64
	nextTxnID     int64
	nextOpeningID int64

	// epoch changes on bulk reset so transactions started before it fail to commit
	epoch  int64
	closed bool

	locks *concurrency.LockManager
	now   func() time.Time
}

// New creates an empty Store
func New() *Store {
	return &Store{
		items:      make(map[int64]domain.Item),
		itemByName: make(map[string]int64),
		cases:      make(map[int64]domain.Case),
		caseByName: make(map[string]int64),
		accounts:   make(map[int64]domain.Account),
		inventory:  make(map[int64]map[int64]holding),
		locks:      concurrency.NewLockManager(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ repository.Store = (*Store)(nil)

func userLockKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func cloneCase(c domain.Case) domain.Case {
	w := make(domain.RarityWeights, len(c.Weights))
	for k, v := range c.Weights {
		w[k] = v
	}
	c.Weights = w
	return c
}

// Ping reports whether the store is open
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("%w: %w", domain.ErrStorage, errClosed)
	}
	return nil
}

// Close marks the store closed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) checkOpen() error {
	if s.closed {
		return fmt.Errorf("%w: %w", domain.ErrStorage, errClosed)
	}
	return nil
}

// ---- Catalog ----

func (s *Store) GetCase(_ context.Context, caseID int64) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	c, ok := s.cases[caseID]
	if !ok {
		return nil, nil
	}
	c = cloneCase(c)
	return &c, nil
}

func (s *Store) ListActiveCases(_ context.Context) ([]domain.Case, error) {
	return s.listCases(true)
}

func (s *Store) ListCases(_ context.Context) ([]domain.Case, error) {
	return s.listCases(false)
}

func (s *Store) listCases(activeOnly bool) ([]domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		if c.Active || !activeOnly {
			out = append(out, cloneCase(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetItem(_ context.Context, itemID int64) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	item, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) ListItems(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpsertItem(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if item.SellPrice > item.Price {
		return fmt.Errorf("%w: sell price of %q exceeds price", domain.ErrCatalogValidation, item.Name)
	}
	id, ok := s.itemByName[item.Name]
	if !ok {
		s.nextItemID++
		id = s.nextItemID
		s.itemByName[item.Name] = id
	}
	item.ID = id
	s.items[id] = *item
	return nil
}

func (s *Store) UpsertCase(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	id, ok := s.caseByName[c.Name]
	if !ok {
		s.nextCaseID++
		id = s.nextCaseID
		s.caseByName[c.Name] = id
	}
	c.ID = id
	s.cases[id] = cloneCase(*c)
	return nil
}

// ---- Accounts and reads ----

func (s *Store) GetAccount(_ context.Context, userID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	acc, ok := s.accounts[userID]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (s *Store) UpsertAccount(ctx context.Context, userID int64, username string, startingBalance int64) (*domain.Account, bool, error) {
	unlock, err := s.locks.LockContext(ctx, userLockKey(userID))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, false, err
	}

	now := s.now()
	if acc, ok := s.accounts[userID]; ok {
		if username != "" {
			acc.Username = username
		}
		acc.LastSeenAt = now
		s.accounts[userID] = acc
		return &acc, false, nil
	}

	acc := domain.Account{
		UserID:     userID,
		Username:   username,
		Balance:    startingBalance,
		Experience: 0,
		Level:      1,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	s.accounts[userID] = acc
	s.nextTxnID++
	s.transactions = append(s.transactions, domain.Transaction{
		ID:          s.nextTxnID,
		UserID:      userID,
		Amount:      startingBalance,
		Type:        domain.TransactionReward,
		Description: domain.DescStartingBonus,
		CreatedAt:   now,
	})
	return &acc, true, nil
}

func (s *Store) GetInventory(_ context.Context, userID int64) ([]domain.InventoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	held := s.inventory[userID]
	out := make([]domain.InventoryEntry, 0, len(held))
	for itemID, h := range held {
		out = append(out, domain.InventoryEntry{
			UserID:     userID,
			Item:       s.items[itemID],
			Quantity:   h.Quantity,
			ObtainedAt: h.ObtainedAt,
			IsFavorite: h.IsFavorite,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		if !out[i].ObtainedAt.Equal(out[j].ObtainedAt) {
			return out[i].ObtainedAt.After(out[j].ObtainedAt)
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].UserID != userID {
			continue
		}
		out = append(out, s.transactions[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CountOpenings(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var n int64
	for _, o := range s.openings {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ---- Admin ----

func (s *Store) GetSystemStats(_ context.Context) (*domain.SystemStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	stats := &domain.SystemStats{
		TotalUsers:    int64(len(s.accounts)),
		TotalOpenings: int64(len(s.openings)),
	}
	for _, acc := range s.accounts {
		stats.TotalBalance += acc.Balance
	}
	for _, held := range s.inventory {
		for _, h := range held {
			stats.TotalInventoryUnits += h.Quantity
		}
	}
	for _, t := range s.transactions {
		if t.Amount > 0 {
			stats.TotalCredited += t.Amount
		} else {
			stats.TotalSpent += -t.Amount
		}
	}
	return stats, nil
}

func (s *Store) ResetAllUserData(_ context.Context, startingBalance int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	for id, acc := range s.accounts {
		acc.Balance = startingBalance
		acc.Experience = 0
		acc.Level = 1
		s.accounts[id] = acc
	}
	s.inventory = make(map[int64]map[int64]holding)
	s.transactions = nil
	s.openings = nil
	s.epoch++
	return int64(len(s.accounts)), nil
}
