// Package user bootstraps identities on first contact from the chat layer.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/event"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

// Service defines the interface for identity bootstrap
type Service interface {
	// Register creates the account on first contact, or refreshes the
	// username and last-seen time of an existing one. created reports which.
	Register(ctx context.Context, userID int64, username string) (snapshot *domain.UserSnapshot, created bool, err error)
	// Forget drops every remembered registration, used after a bulk reset
	Forget()
	CacheStats() CacheStats
}

// CacheConfig sizes the identity cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type service struct {
	repo            repository.User
	publisher       event.Publisher
	startingBalance int64
	cache           *identityCache
	now             func() time.Time
}

// NewService creates a new user service. publisher may be nil.
func NewService(repo repository.User, publisher event.Publisher, startingBalance int64, cacheCfg CacheConfig) Service {
	return &service{
		repo:            repo,
		publisher:       publisher,
		startingBalance: startingBalance,
		cache:           newIdentityCache(cacheCfg.Size, cacheCfg.TTL),
		now:             time.Now,
	}
}

func (s *service) Register(ctx context.Context, userID int64, username string) (*domain.UserSnapshot, bool, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgRegisterCalled, "user_id", userID, "username", username)

	username = strings.TrimSpace(username)
	if userID <= 0 {
		return nil, false, fmt.Errorf(ErrFmtInvalidUserID, domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, false, fmt.Errorf(ErrFmtUsernameTooLong, domain.ErrInvalidInput, MaxUsernameLength)
	}

	var (
		account *domain.Account
		created bool
		err     error
	)
	if s.cache.Seen(userID, username) {
		account, err = s.repo.GetAccount(ctx, userID)
		if err != nil {
			return nil, false, fmt.Errorf(ErrMsgGetAccountFailed, err)
		}
	}
	if account == nil {
		account, created, err = s.repo.UpsertAccount(ctx, userID, username, s.startingBalance)
		if err != nil {
			log.Error(LogErrFailedToUpsertUser, "error", err, "user_id", userID)
			return nil, false, fmt.Errorf(ErrMsgUpsertAccountFailed, err)
		}
		s.cache.Set(userID, username)
	}

	if created {
		log.Info(LogMsgUserRegistered, "user_id", userID, "username", account.Username, "starting_balance", s.startingBalance)
		if s.publisher != nil {
			s.publisher.PublishWithRetry(ctx, event.NewUserRegisteredEvent(domain.UserRegisteredPayload{
				UserID:          userID,
				Username:        account.Username,
				StartingBalance: s.startingBalance,
				Timestamp:       s.now().Unix(),
			}))
		}
	} else {
		log.Debug(LogMsgUserRefreshed, "user_id", userID)
	}

	opened, err := s.repo.CountOpenings(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf(ErrMsgCountOpeningsFailed, err)
	}
	return economy.Snapshot(account, opened), created, nil
}

func (s *service) Forget() {
	s.cache.Clear()
}

func (s *service) CacheStats() CacheStats {
	return s.cache.Stats()
}
