package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

const accountColumns = `user_id, username, balance, experience, level, created_at, last_seen_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	if err := row.Scan(&acc.UserID, &acc.Username, &acc.Balance, &acc.Experience, &acc.Level,
		&acc.CreatedAt, &acc.LastSeenAt); err != nil {
		return nil, err
	}
	return &acc, nil
}

func getAccount(ctx context.Context, q querier, userID int64, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	acc, err := scanAccount(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get account", err)
	}
	return acc, nil
}

// GetAccount returns the account or nil for unknown users
func (s *Store) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return getAccount(ctx, s.db, userID, false)
}

// GetInventory lists holdings, favorites first then most recently obtained
func (s *Store) GetInventory(ctx context.Context, userID int64) ([]domain.InventoryEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT inv.quantity, inv.obtained_at, inv.is_favorite,
			i.item_id, i.name, i.icon, i.rarity, i.category, i.price, i.sell_price, i.description, i.texture_url
		FROM inventory inv
		JOIN items i ON i.item_id = inv.item_id
		WHERE inv.user_id = $1
		ORDER BY inv.is_favorite DESC, inv.obtained_at DESC, i.item_id`, userID)
	if err != nil {
		return nil, storageErr("get inventory", err)
	}
	defer rows.Close()

	out := make([]domain.InventoryEntry, 0)
	for rows.Next() {
		e := domain.InventoryEntry{UserID: userID}
		var rarity string
		if err := rows.Scan(&e.Quantity, &e.ObtainedAt, &e.IsFavorite,
			&e.Item.ID, &e.Item.Name, &e.Item.Icon, &rarity, &e.Item.Category,
			&e.Item.Price, &e.Item.SellPrice, &e.Item.Description, &e.Item.TextureURL); err != nil {
			return nil, storageErr("scan inventory", err)
		}
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
	rows, err := s.db.Query(ctx, `
		SELECT transaction_id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description, &t.CreatedAt); err != nil {
			return nil, storageErr("scan transaction", err)
		}
		t.Type = domain.TransactionType(typ)
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
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM opening_history WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, storageErr("count openings", err)
	}
	return n, nil
}

// EconomyTx implements repository.EconomyTx
type EconomyTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (repository.EconomyTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	return &EconomyTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *EconomyTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rollback after Commit returns nil.
func (t *EconomyTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// GetAccountForUpdate reads the account and holds its row lock until the transaction ends
func (t *EconomyTx) GetAccountForUpdate(ctx context.Context, userID int64) (*domain.Account, error) {
	return getAccount(ctx, t.tx, userID, true)
}

func (t *EconomyTx) UpdateAccount(ctx context.Context, acc *domain.Account) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users SET balance = $2, experience = $3, level = $4, last_seen_at = NOW()
		WHERE user_id = $1`, acc.UserID, acc.Balance, acc.Experience, acc.Level)
	if err != nil {
		return storageErr("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrUserNotFound, acc.UserID)
	}
	return nil
}

func (t *EconomyTx) AppendTransaction(ctx context.Context, txn *domain.Transaction) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING transaction_id, created_at`,
		txn.UserID, string(txn.Type), txn.Amount, txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return storageErr("append transaction", err)
	}
	return nil
}

func (t *EconomyTx) AddInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	var qty int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO inventory (user_id, item_id, quantity, obtained_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			quantity = inventory.quantity + 1,
			obtained_at = NOW()
		RETURNING quantity`, userID, itemID).Scan(&qty)
	if err != nil {
		return 0, storageErr("add inventory unit", err)
	}
	return qty, nil
}

func (t *EconomyTx) RemoveInventoryUnit(ctx context.Context, userID, itemID int64) (int64, error) {
	var qty int64
	err := t.tx.QueryRow(ctx, `
		UPDATE inventory SET quantity = quantity - 1
		WHERE user_id = $1 AND item_id = $2 AND quantity > 1
		RETURNING quantity`, userID, itemID).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, storageErr("remove inventory unit", err)
	}

	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return 0, storageErr("remove inventory unit", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: item %d", domain.ErrItemNotInInventory, itemID)
	}
	return 0, nil
}

func (t *EconomyTx) AppendOpening(ctx context.Context, rec *domain.OpeningRecord) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO opening_history (user_id, case_id, item_id)
		VALUES ($1, $2, $3)
		RETURNING history_id, opened_at`,
		rec.UserID, rec.CaseID, rec.ItemID,
	).Scan(&rec.ID, &rec.OpenedAt)
	if err != nil {
		return storageErr("append opening", err)
	}
	return nil
}
