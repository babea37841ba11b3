package admin

import "time"

// DefaultDialogTTL is how long an idle admin dialog survives
const DefaultDialogTTL = 10 * time.Minute

// DefaultMaxDialogs bounds the number of in-flight dialogs
const DefaultMaxDialogs = 256

// MaxReasonLength bounds the free-text reason of an adjustment
const MaxReasonLength = 200

// Dialog commands
const (
	CommandAdjust  = "adjust"
	CommandCancel  = "cancel"
	CommandConfirm = "yes"
	CommandReject  = "no"
)

// Prompt codes tell the presentation layer what to ask for next
const (
	PromptUserID    = "enter_user_id"
	PromptAmount    = "enter_amount"
	PromptReason    = "enter_reason"
	PromptConfirm   = "confirm_adjustment"
	PromptCompleted = "adjustment_completed"
	PromptCancelled = "dialog_cancelled"
)

// Log messages
const (
	LogMsgBalanceAdjusted = "Balance adjusted by admin"
	LogMsgEconomyReset    = "Economy reset by admin"
	LogMsgDialogStep      = "Admin dialog step"
)

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgLockAccountFailed       = "failed to lock account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgAppendTransactionFailed = "failed to append transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetStatsFailed          = "failed to get system stats: %w"
	ErrMsgResetFailed             = "failed to reset user data: %w"
	ErrFmtNotAdmin                = "%w: %d"
	ErrFmtUserNotFound            = "%w: %d"
	ErrFmtOverdraw                = "%w: balance %d, adjustment %d"
	ErrFmtBadUserID               = "%w: %q is not a positive user id"
	ErrFmtBadAmount               = "%w: %q is not a non-zero whole amount"
	ErrFmtBadReason               = "%w: reason must be 1-%d characters"
	ErrFmtBadConfirmation         = "%w: answer %q or %q"
	ErrFmtUnexpectedState         = "%w: state %s"
)
