// Package admin implements operator tooling: a balance-adjustment dialog,
// direct adjustments, economy statistics and the bulk reset.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// DialogReply is the outcome of one dialog step
type DialogReply struct {
	Dialog     Dialog                    `json:"dialog"`
	Prompt     string                    `json:"prompt"`
	Adjustment *domain.BalanceAdjustment `json:"adjustment,omitempty"`
}

// Service defines the interface for admin operations. Every method checks
// that adminID is a configured administrator.
type Service interface {
	HandleDialog(ctx context.Context, adminID int64, input string) (*DialogReply, error)
	AdjustBalance(ctx context.Context, adminID, userID, amount int64, reason string) (*domain.BalanceAdjustment, error)
	SystemStats(ctx context.Context, adminID int64) (*domain.SystemStats, error)
	ResetAll(ctx context.Context, adminID int64) (int64, error)
	// OnReset registers a hook run after a successful bulk reset
	OnReset(hook func(ctx context.Context))
}

// Config holds admin settings
type Config struct {
	AdminIDs        []int64
	StartingBalance int64
	DialogTTL       time.Duration
}

type service struct {
	repo            repository.Admin
	publisher       event.Publisher
	admins          map[int64]bool
	startingBalance int64
	dialogs         *Dialogs
	resetHooks      []func(ctx context.Context)
	now             func() time.Time
}

// NewService creates a new admin service. publisher may be nil.
func NewService(repo repository.Admin, publisher event.Publisher, cfg Config) Service {
	admins := make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = true
	}
	return &service{
		repo:            repo,
		publisher:       publisher,
		admins:          admins,
		startingBalance: cfg.StartingBalance,
		dialogs:         NewDialogs(DefaultMaxDialogs, cfg.DialogTTL),
		now:             time.Now,
	}
}

func (s *service) OnReset(hook func(ctx context.Context)) {
	s.resetHooks = append(s.resetHooks, hook)
}

func (s *service) authorize(adminID int64) error {
	if !s.admins[adminID] {
		return fmt.Errorf(ErrFmtNotAdmin, domain.ErrNotAdmin, adminID)
	}
	return nil
}

func (s *service) HandleDialog(ctx context.Context, adminID int64, input string) (*DialogReply, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}

	d, prompt, pending, err := s.dialogs.Step(adminID, input, s.now())
	logger.FromContext(ctx).Debug(LogMsgDialogStep, "admin_id", adminID, "state", d.State, "prompt", prompt)
	reply := &DialogReply{Dialog: d, Prompt: prompt}
	if err != nil {
		return reply, err
	}
	if pending != nil {
		adj, err := s.AdjustBalance(ctx, adminID, pending.UserID, pending.Amount, pending.Reason)
		if err != nil {
			return reply, err
		}
		reply.Adjustment = adj
	}
	return reply, nil
}

// AdjustBalance credits or debits a user as one atomic admin transaction.
// A debit larger than the balance is refused rather than clamped.
func (s *service) AdjustBalance(ctx context.Context, adminID, userID, amount int64, reason string) (*domain.BalanceAdjustment, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, fmt.Errorf(ErrFmtBadUserID, domain.ErrInvalidInput, fmt.Sprint(userID))
	}
	if amount == 0 {
		return nil, fmt.Errorf(ErrFmtBadAmount, domain.ErrInvalidInput, "0")
	}
	if err := validateReason(reason); err != nil {
		return nil, err
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
	oldBalance := account.Balance
	if oldBalance+amount < 0 {
		return nil, fmt.Errorf(ErrFmtOverdraw, domain.ErrInsufficientFunds, oldBalance, amount)
	}

	account.Balance += amount
	if err := tx.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateAccountFailed, err)
	}
	if err := tx.AppendTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        domain.TransactionAdmin,
		Description: reason,
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgAppendTransactionFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgBalanceAdjusted, "admin_id", adminID, "user_id", userID, "amount", amount, "new_balance", account.Balance)
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewBalanceAdjustedEvent(domain.BalanceAdjustedPayload{
			AdminID:   adminID,
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			Timestamp: s.now().Unix(),
		}))
	}

	return &domain.BalanceAdjustment{
		UserID:     userID,
		Amount:     amount,
		OldBalance: oldBalance,
		NewBalance: account.Balance,
		Reason:     reason,
	}, nil
}

func (s *service) SystemStats(ctx context.Context, adminID int64) (*domain.SystemStats, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}
	stats, err := s.repo.GetSystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetStatsFailed, err)
	}
	return stats, nil
}

// ResetAll restores every account to the starting balance and clears
// inventories, opening history and the ledger. The catalog is untouched.
func (s *service) ResetAll(ctx context.Context, adminID int64) (int64, error) {
	if err := s.authorize(adminID); err != nil {
		return 0, err
	}
	n, err := s.repo.ResetAllUserData(ctx, s.startingBalance)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgResetFailed, err)
	}

	logger.FromContext(ctx).Warn(LogMsgEconomyReset, "admin_id", adminID, "users_affected", n)
	for _, hook := range s.resetHooks {
		hook(ctx)
	}
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewEconomyResetEvent(domain.EconomyResetPayload{
			AdminID:       adminID,
			UsersAffected: n,
			Timestamp:     s.now().Unix(),
		}))
	}
	return n, nil
}
