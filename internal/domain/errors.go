package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound  = "user not found"
	ErrMsgInvalidInput  = "invalid input"
	ErrMsgDialogExpired = "admin dialog is not active"
	ErrMsgNotAdmin      = "not an administrator"

	// Catalog errors
	ErrMsgItemNotFound        = "item not found"
	ErrMsgCaseNotFound        = "case not found"
	ErrMsgInvalidDistribution = "invalid rarity distribution"
	ErrMsgEmptyRarityPool     = "no items of drawn rarity"
	ErrMsgCatalogValidation   = "catalog validation failed"

	// Economy errors
	ErrMsgInsufficientFunds  = "insufficient funds"
	ErrMsgItemNotInInventory = "item not in inventory"

	// Storage errors
	ErrMsgStorage  = "storage failure"
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound   = errors.New(ErrMsgUserNotFound)
	ErrInvalidInput   = errors.New(ErrMsgInvalidInput)
	ErrDialogInactive = errors.New(ErrMsgDialogExpired)
	ErrNotAdmin       = errors.New(ErrMsgNotAdmin)

	ErrItemNotFound        = errors.New(ErrMsgItemNotFound)
	ErrCaseNotFound        = errors.New(ErrMsgCaseNotFound)
	ErrInvalidDistribution = errors.New(ErrMsgInvalidDistribution)
	ErrEmptyRarityPool     = errors.New(ErrMsgEmptyRarityPool)
	ErrCatalogValidation   = errors.New(ErrMsgCatalogValidation)

	ErrInsufficientFunds  = errors.New(ErrMsgInsufficientFunds)
	ErrItemNotInInventory = errors.New(ErrMsgItemNotInInventory)

	// ErrStorage marks transient persistence failures. Callers may retry.
	ErrStorage = errors.New(ErrMsgStorage)
)

// ErrorKind groups errors by who has to act on them
type ErrorKind string

// Error kinds
const (
	KindUser          ErrorKind = "user"
	KindConfiguration ErrorKind = "configuration"
	KindStorage       ErrorKind = "storage"
	KindUnknown       ErrorKind = "unknown"
)

// KindOf classifies an error. User errors are shown to the player,
// configuration errors need operator attention, storage errors are retryable.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrInvalidDistribution),
		errors.Is(err, ErrEmptyRarityPool),
		errors.Is(err, ErrCatalogValidation):
		return KindConfiguration
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrItemNotInInventory),
		errors.Is(err, ErrCaseNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDialogInactive),
		errors.Is(err, ErrNotAdmin):
		return KindUser
	default:
		return KindUnknown
	}
}
