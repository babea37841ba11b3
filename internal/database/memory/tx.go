package memory

import (
	"context"
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

type invKey struct {
	userID int64
	itemID int64
}

type tx struct {
	store *Store
	epoch int64

	unlocks  map[int64]func()
	accounts map[int64]domain.Account
	inv      map[invKey]int64 // staged absolute quantities
	txns     []domain.Transaction
	openings []domain.OpeningRecord
	done     bool
}

// BeginTx starts a transaction. Writes become visible at Commit.
func (s *Store) BeginTx(_ context.Context) (repository.EconomyTx, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return &tx{
		store:    s,
		epoch:    s.epoch,
		unlocks:  make(map[int64]func()),
		accounts: make(map[int64]domain.Account),
		inv:      make(map[invKey]int64),
	}, nil
}

func (t *tx) lockUser(ctx context.Context, userID int64) error {
	if t.done {
		return repository.ErrTxClosed
	}
	if _, held := t.unlocks[userID]; held {
		return nil
	}
	unlock, err := t.store.locks.LockContext(ctx, userLockKey(userID))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	t.unlocks[userID] = unlock
	return nil
}

func (t *tx) release() {
	for _, unlock := range t.unlocks {
		unlock()
	}
	t.unlocks = nil
	t.done = true
}

func (t *tx) GetAccountForUpdate(ctx context.Context, userID int64) (*domain.Account, error) {
	if err := t.lockUser(ctx, userID); err != nil {
		return nil, err
	}
	if acc, ok := t.accounts[userID]; ok {
		return &acc, nil
	}
	return t.store.GetAccount(ctx, userID)
}

func (t *tx) UpdateAccount(ctx context.Context, account *domain.Account) error {
	if err := t.lockUser(ctx, account.UserID); err != nil {
		return err
	}
	if account.Balance < 0 {
		return fmt.Errorf("%w: balance of user %d would be negative", domain.ErrInsufficientFunds, account.UserID)
	}
	t.accounts[account.UserID] = *account
	return nil
}

func (t *tx) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	if err := t.lockUser(ctx, txn.UserID); err != nil {
		return err
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = t.store.now()
	}
	t.txns = append(t.txns, *txn)
	return nil
}

func (t *tx) currentQuantity(userID, itemID int64) int64 {
	key := invKey{userID, itemID}
	if q, ok := t.inv[key]; ok {
		return q
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.inventory[userID][itemID].Quantity
}

func (t *tx) AddInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	if err := t.lockUser(ctx, userID); err != nil {
		return 0, err
	}
	q := t.currentQuantity(userID, itemID) + 1
	t.inv[invKey{userID, itemID}] = q
	return q, nil
}

func (t *tx) RemoveInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	if err := t.lockUser(ctx, userID); err != nil {
		return 0, err
	}
	q := t.currentQuantity(userID, itemID)
	if q <= 0 {
		return 0, fmt.Errorf("%w: item %d", domain.ErrItemNotInInventory, itemID)
	}
	q--
	t.inv[invKey{userID, itemID}] = q
	return q, nil
}

func (t *tx) AppendOpening(ctx context.Context, rec *domain.OpeningRecord) error {
	if err := t.lockUser(ctx, rec.UserID); err != nil {
		return err
	}
	if rec.OpenedAt.IsZero() {
		rec.OpenedAt = t.store.now()
	}
	t.openings = append(t.openings, *rec)
	return nil
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return repository.ErrTxClosed
	}
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.epoch != t.epoch {
		return fmt.Errorf("%w: data was reset during transaction", domain.ErrStorage)
	}

	now := s.now()
	for id, acc := range t.accounts {
		s.accounts[id] = acc
	}
	for key, q := range t.inv {
		held := s.inventory[key.userID]
		if q <= 0 {
			delete(held, key.itemID)
			continue
		}
		if held == nil {
			held = make(map[int64]holding)
			s.inventory[key.userID] = held
		}
		h := held[key.itemID]
		if q > h.Quantity {
			h.ObtainedAt = now
		}
		h.Quantity = q
		held[key.itemID] = h
	}
	for _, txn := range t.txns {
		s.nextTxnID++
		txn.ID = s.nextTxnID
		s.transactions = append(s.transactions, txn)
	}
	for _, rec := range t.openings {
		s.nextOpeningID++
		rec.ID = s.nextOpeningID
		s.openings = append(s.openings, rec)
	}
	return nil
}

// Rollback discards staged writes. Rollback after Commit is a no-op.
func (t *tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}
