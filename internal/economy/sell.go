package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// SellItem sells one unit of itemID back for its sell price. Experience and
// level are not touched.
func (s *service) SellItem(ctx context.Context, userID, itemID int64) (*domain.SellResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellItemCalled, "user_id", userID, "item_id", itemID)

	if err := requirePositive(userID, "user id"); err != nil {
		return nil, err
	}
	if err := requirePositive(itemID, "item id"); err != nil {
		return nil, err
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetItemFailed, err)
	}
	if item == nil {
		// nobody can hold an item the catalog does not know
		return nil, fmt.Errorf(ErrFmtItemNotInInventory, domain.ErrItemNotInInventory, itemID)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	account, err := tx.GetAccountForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLockAccountFailed, err)
	}
	if account == nil {
		return nil, fmt.Errorf(ErrFmtUserNotFound, domain.ErrUserNotFound, userID)
	}

	remaining, err := tx.RemoveInventoryUnit(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotInInventory) {
			return nil, fmt.Errorf(ErrFmtItemNotInInventory, domain.ErrItemNotInInventory, itemID)
		}
		return nil, fmt.Errorf(ErrMsgRemoveInventoryFailed, err)
	}

	account.Balance += item.SellPrice
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateAccountFailed, err)
	}

	if err := tx.AppendTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		Amount:      item.SellPrice,
		Type:        domain.TransactionSell,
		Description: fmt.Sprintf(domain.DescSellItemFmt, item.Name),
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgAppendTransactionFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	s.publish(ctx, event.NewItemSoldEvent(domain.ItemSoldPayload{
		UserID:    userID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Rarity:    item.Rarity,
		Credited:  item.SellPrice,
		Timestamp: s.now().Unix(),
	}))

	log.Info(LogMsgItemSold, "user_id", userID, "item_id", item.ID, "credited", item.SellPrice, "remaining", remaining)
	return &domain.SellResult{
		Item:              *item,
		CreditedAmount:    item.SellPrice,
		NewBalance:        account.Balance,
		RemainingQuantity: remaining,
	}, nil
}
