package economy

import (
	"context"
	"fmt"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/leveling"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// OpenCase buys one opening of caseID for userID.
//
// Failures are reported in a fixed order: unknown or inactive case, then
// insufficient funds, then an unusable weight table, then an empty rarity
// tier. The draw itself happens before the ledger row is locked so catalog
// reads never run while the row is held, but its error is only surfaced once
// the balance check has passed.
func (s *service) OpenCase(ctx context.Context, userID, caseID int64) (*domain.OpenCaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOpenCaseCalled, "user_id", userID, "case_id", caseID)

	if err := requirePositive(userID, "user id"); err != nil {
		return nil, err
	}
	if err := requirePositive(caseID, "case id"); err != nil {
		return nil, err
	}

	c, err := s.catalog.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCaseFailed, err)
	}
	if c == nil || !c.Active {
		return nil, fmt.Errorf(ErrFmtCaseNotFound, domain.ErrCaseNotFound, caseID)
	}

	item, drawErr := s.drawer.Draw(ctx, c)

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
	if account.Balance < c.Price {
		return nil, fmt.Errorf(ErrFmtInsufficientFunds, domain.ErrInsufficientFunds, account.Balance, c.Price)
	}
	if drawErr != nil {
		log.Error(LogMsgDrawFailed, "case_id", c.ID, "kind", domain.KindOf(drawErr), "error", drawErr)
		return nil, drawErr
	}

	oldLevel := leveling.LevelFor(account.Experience)
	gained := leveling.ExperienceForPurchase(c.Price)
	newExperience, newLevel, _ := leveling.Progress(account.Experience, gained)

	account.Balance -= c.Price
	account.Experience = newExperience
	account.Level = newLevel
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateAccountFailed, err)
	}

	if err := tx.AppendTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		Amount:      -c.Price,
		Type:        domain.TransactionPurchase,
		Description: fmt.Sprintf(domain.DescOpenCaseFmt, c.Name),
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgAppendTransactionFailed, err)
	}

	quantity, err := tx.AddInventoryUnit(ctx, userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgAddInventoryFailed, err)
	}

	if err := tx.AppendOpening(ctx, &domain.OpeningRecord{UserID: userID, CaseID: c.ID, ItemID: item.ID}); err != nil {
		return nil, fmt.Errorf(ErrMsgAppendOpeningFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	leveledUp := newLevel > oldLevel
	ts := s.now().Unix()
	events := []event.Event{event.NewCaseOpenedEvent(domain.CaseOpenedPayload{
		UserID:    userID,
		CaseID:    c.ID,
		CaseName:  c.Name,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Rarity:    item.Rarity,
		Price:     c.Price,
		Timestamp: ts,
	})}
	if leveledUp {
		log.Info(LogMsgLevelUp, "user_id", userID, "old_level", oldLevel, "new_level", newLevel)
		events = append(events, event.NewLevelUpEvent(domain.LevelUpPayload{
			UserID:    userID,
			OldLevel:  oldLevel,
			NewLevel:  newLevel,
			Timestamp: ts,
		}))
	}
	s.publish(ctx, events...)

	log.Info(LogMsgCaseOpened, "user_id", userID, "case_id", c.ID, "item_id", item.ID, "rarity", item.Rarity, "new_balance", account.Balance)
	return &domain.OpenCaseResult{
		Item:             *item,
		CasePrice:        c.Price,
		NewBalance:       account.Balance,
		ExperienceGained: gained,
		NewExperience:    newExperience,
		NewLevel:         newLevel,
		LeveledUp:        leveledUp,
		Quantity:         quantity,
	}, nil
}
