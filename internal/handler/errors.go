package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidPathParam      = "Invalid %s path parameter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
)

// User-facing messages for service errors, keyed off domain sentinels
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgConfigurationError  = "This case is misconfigured. An operator has been notified."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again."
	ErrMsgUserNotFoundError   = "User not found. Register first."
	ErrMsgCaseNotFoundError   = "Case not found"
	ErrMsgItemNotFoundError   = "Item not found"
	ErrMsgNotEnoughMoneyError = "Not enough money"
	ErrMsgNotInInventoryError = "You don't have that item"
	ErrMsgNotAdminError       = "Administrator access required"
	ErrMsgDialogInactiveError = "No admin dialog in progress"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
)

// Log messages
const (
	LogMsgRequestFailed      = "Request failed"
	LogMsgConfigurationError = "Catalog configuration error"
	LogMsgEncodeFailed       = "Failed to encode JSON response"
	LogMsgWriteFailed        = "Failed to write response buffer"
	LogMsgReadinessFailed    = "Readiness check failed"
)

// Success messages
const (
	MsgEconomyReset = "All accounts reset to the starting balance"
)
