package admin

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// State is a step of the balance-adjustment dialog
type State string

// Dialog states
const (
	StateIdle                 State = "idle"
	StateAwaitingUserID       State = "awaiting_user_id"
	StateAwaitingAmount       State = "awaiting_amount"
	StateAwaitingReason       State = "awaiting_reason"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// Dialog is one admin's in-flight balance adjustment. The zero value is idle.
type Dialog struct {
	AdminID   int64     `json:"admin_id"`
	State     State     `json:"state"`
	UserID    int64     `json:"user_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PendingAdjustment is what a confirmed dialog asks the service to apply
type PendingAdjustment struct {
	UserID int64
	Amount int64
	Reason string
}

// Step feeds one line of admin input to the dialog and returns the prompt
// for the next step. A non-nil PendingAdjustment means the admin confirmed.
// Invalid input leaves the dialog where it was.
func (d *Dialog) Step(input string, now time.Time) (prompt string, pending *PendingAdjustment, err error) {
	input = strings.TrimSpace(input)
	if d.State == "" {
		d.State = StateIdle
	}

	if strings.EqualFold(input, CommandCancel) {
		if d.State == StateIdle {
			return "", nil, domain.ErrDialogInactive
		}
		d.reset(now)
		return PromptCancelled, nil, nil
	}

	switch d.State {
	case StateIdle:
		if !strings.EqualFold(input, CommandAdjust) {
			return "", nil, domain.ErrDialogInactive
		}
		d.transition(StateAwaitingUserID, now)
		return PromptUserID, nil, nil

	case StateAwaitingUserID:
		id, err := strconv.ParseInt(input, 10, 64)
		if err != nil || id <= 0 {
			return PromptUserID, nil, fmt.Errorf(ErrFmtBadUserID, domain.ErrInvalidInput, input)
		}
		d.UserID = id
		d.transition(StateAwaitingAmount, now)
		return PromptAmount, nil, nil

	case StateAwaitingAmount:
		amount, err := strconv.ParseInt(strings.TrimPrefix(input, "+"), 10, 64)
		if err != nil || amount == 0 {
			return PromptAmount, nil, fmt.Errorf(ErrFmtBadAmount, domain.ErrInvalidInput, input)
		}
		d.Amount = amount
		d.transition(StateAwaitingReason, now)
		return PromptReason, nil, nil

	case StateAwaitingReason:
		if err := validateReason(input); err != nil {
			return PromptReason, nil, err
		}
		d.Reason = input
		d.transition(StateAwaitingConfirmation, now)
		return PromptConfirm, nil, nil

	case StateAwaitingConfirmation:
		switch {
		case strings.EqualFold(input, CommandConfirm):
			pending = &PendingAdjustment{UserID: d.UserID, Amount: d.Amount, Reason: d.Reason}
			d.reset(now)
			return PromptCompleted, pending, nil
		case strings.EqualFold(input, CommandReject):
			d.reset(now)
			return PromptCancelled, nil, nil
		default:
			return PromptConfirm, nil, fmt.Errorf(ErrFmtBadConfirmation, domain.ErrInvalidInput, CommandConfirm, CommandReject)
		}
	}
	return "", nil, fmt.Errorf(ErrFmtUnexpectedState, domain.ErrInvalidInput, d.State)
}

func (d *Dialog) transition(next State, now time.Time) {
	d.State = next
	d.UpdatedAt = now
}

func (d *Dialog) reset(now time.Time) {
	*d = Dialog{AdminID: d.AdminID, State: StateIdle, UpdatedAt: now}
}

func validateReason(reason string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(reason))
	if n == 0 || n > MaxReasonLength {
		return fmt.Errorf(ErrFmtBadReason, domain.ErrInvalidInput, MaxReasonLength)
	}
	return nil
}

// Dialogs keeps one Dialog per admin. Dialogs left untouched for the TTL
// expire and the admin starts over from idle.
type Dialogs struct {
	mu  sync.Mutex
	lru *expirable.LRU[int64, *Dialog]
}

// NewDialogs creates a dialog registry
func NewDialogs(size int, ttl time.Duration) *Dialogs {
	if size <= 0 {
		size = DefaultMaxDialogs
	}
	if ttl <= 0 {
		ttl = DefaultDialogTTL
	}
	return &Dialogs{lru: expirable.NewLRU[int64, *Dialog](size, nil, ttl)}
}

// Step advances adminID's dialog and returns a copy of its new state
func (ds *Dialogs) Step(adminID int64, input string, now time.Time) (Dialog, string, *PendingAdjustment, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	d, ok := ds.lru.Get(adminID)
	if !ok {
		d = &Dialog{AdminID: adminID, State: StateIdle, UpdatedAt: now}
	}
	prompt, pending, err := d.Step(input, now)
	if d.State == StateIdle {
		ds.lru.Remove(adminID)
	} else {
		// re-adding refreshes the expiry
		ds.lru.Add(adminID, d)
	}
	return *d, prompt, pending, err
}

// Current returns adminID's dialog, idle if none is in flight
func (ds *Dialogs) Current(adminID int64) Dialog {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if d, ok := ds.lru.Get(adminID); ok {
		return *d
	}
	return Dialog{AdminID: adminID, State: StateIdle}
}

// Len reports the number of in-flight dialogs
func (ds *Dialogs) Len() int {
	return ds.lru.Len()
}
