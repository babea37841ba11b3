package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

const accountColumns = `user_id, username, balance, experience, level, created_at, last_seen_at`

func scanAccount(row rowScanner) (*domain.Account, error) {
	var acc domain.Account
	var created, seen int64
	if err := row.Scan(&acc.UserID, &acc.Username, &acc.Balance, &acc.Experience, &acc.Level, &created, &seen); err != nil {
		return nil, err
	}
	acc.CreatedAt = fromMillis(created)
	acc.LastSeenAt = fromMillis(seen)
	return &acc, nil
}

func getAccount(ctx context.Context, q querier, userID int64) (*domain.Account, error) {
	acc, err := scanAccount(q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM users WHERE user_id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get account", err)
	}
	return acc, nil
}

// GetAccount returns the account or nil for unknown users
func (s *Store) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return getAccount(ctx, s.db, userID)
}

// GetInventory lists holdings, favorites first then most recently obtained
func (s *Store) GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT inv.quantity, inv.obtained_at, inv.is_favorite,
			i.item_id, i.name, i.icon, i.rarity, i.category, i.price, i.sell_price, i.description, i.texture_url
		FROM inventory inv
		JOIN items i ON i.item_id = inv.item_id
		WHERE inv.user_id = ?
		ORDER BY inv.is_favorite DESC, inv.obtained_at DESC, i.item_id`, userID)
	if err != nil {
		return nil, storageErr("get inventory", err)
	}
	defer rows.Close()

	out := make([]domain.InventoryEntry, 0)
	for rows.Next() {
		e := domain.InventoryEntry{UserID: userID}
		var obtained int64
		var rarity string
		if err := rows.Scan(&e.Quantity, &obtained, &e.IsFavorite,
			&e.Item.ID, &e.Item.Name, &e.Item.Icon, &rarity, &e.Item.Category,
			&e.Item.Price, &e.Item.SellPrice, &e.Item.Description, &e.Item.TextureURL); err != nil {
			return nil, storageErr("scan inventory", err)
		}
		e.ObtainedAt = fromMillis(obtained)
		e.Item.Rarity = domain.Rarity(rarity)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get inventory", err)
	}
	return out, nil
}

// ListTransactions returns the user's ledger newest first
func (s *Store) ListTransactions(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY transaction_id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		var typ string
		var created int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description, &created); err != nil {
			return nil, storageErr("scan transaction", err)
		}
		t.Type = domain.TransactionType(typ)
		t.CreatedAt = fromMillis(created)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transactions", err)
	}
	return out, nil
}

// CountOpenings returns how many cases the user opened
func (s *Store) CountOpenings(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM opening_history WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, storageErr("count openings", err)
	}
	return n, nil
}

// EconomyTx implements repository.EconomyTx. The underlying transaction
// holds the database write lock from BEGIN, so reads inside it are already
// exclusive and GetAccountForUpdate needs no row-level locking.
type EconomyTx struct {
	tx  *sql.Tx
	now func() int64
}

// BeginTx starts an immediate transaction
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	return &EconomyTx{tx: tx, now: s.nowMillis}, nil
}

// Commit commits the transaction
func (t *EconomyTx) Commit(_ context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rollback after Commit returns nil.
func (t *EconomyTx) Rollback(_ context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (t *EconomyTx) GetAccountForUpdate(ctx context.Context, userID int64) (*domain.Account, error) {
	return getAccount(ctx, t.tx, userID)
}

func (t *EconomyTx) UpdateAccount(ctx context.Context, acc *domain.Account) error {
	if acc.Balance < 0 {
		return fmt.Errorf("update account %d: %w", acc.UserID, domain.ErrInsufficientFunds)
	}
	res, err := t.tx.ExecContext(ctx, `
		UPDATE users SET balance = ?, experience = ?, level = ?, last_seen_at = ?
		WHERE user_id = ?`, acc.Balance, acc.Experience, acc.Level, t.now(), acc.UserID)
	if err != nil {
		return storageErr("update account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", domain.ErrUserNotFound, acc.UserID)
	}
	return nil
}

func (t *EconomyTx) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	return appendTransaction(ctx, t.tx, t.now(), txn)
}

func appendTransaction(ctx context.Context, q querier, now int64, txn *domain.Transaction) error {
	if err := q.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING transaction_id`,
		txn.UserID, string(txn.Type), txn.Amount, txn.Description, now,
	).Scan(&txn.ID); err != nil {
		return storageErr("append transaction", err)
	}
	txn.CreatedAt = fromMillis(now)
	return nil
}

func (t *EconomyTx) AddInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	var qty int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO inventory (user_id, item_id, quantity, obtained_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			quantity = inventory.quantity + 1,
			obtained_at = excluded.obtained_at
		RETURNING quantity`, userID, itemID, t.now()).Scan(&qty)
	if err != nil {
		return 0, storageErr("add inventory unit", err)
	}
	return qty, nil
}

func (t *EconomyTx) RemoveInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	var qty int64
	err := t.tx.QueryRowContext(ctx, `
		UPDATE inventory SET quantity = quantity - 1
		WHERE user_id = ? AND item_id = ? AND quantity > 1
		RETURNING quantity`, userID, itemID).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, storageErr("remove inventory unit", err)
	}

	res, err := t.tx.ExecContext(ctx, `DELETE FROM inventory WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return 0, storageErr("remove inventory unit", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%w: item %d", domain.ErrItemNotInInventory, itemID)
	}
	return 0, nil
}

func (t *EconomyTx) AppendOpening(ctx context.Context, rec *domain.OpeningRecord) error {
	now := t.now()
	if err := t.tx.QueryRowContext(ctx, `
		INSERT INTO opening_history (user_id, case_id, item_id, opened_at)
		VALUES (?, ?, ?, ?)
		RETURNING history_id`,
		rec.UserID, rec.CaseID, rec.ItemID, now,
	).Scan(&rec.ID); err != nil {
		return storageErr("append opening", err)
	}
	rec.OpenedAt = fromMillis(now)
	return nil
}
