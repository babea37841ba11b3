package economy

// DefaultTransactionLimit caps GetTransactions when the caller passes no limit
const DefaultTransactionLimit = 50

// MaxTransactionLimit is the largest page GetTransactions returns
const MaxTransactionLimit = 500

// Error messages
const (
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgGetCaseFailed           = "failed to get case: %w"
	ErrMsgGetItemFailed           = "failed to get item: %w"
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgLockAccountFailed       = "failed to lock account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgAppendTransactionFailed = "failed to append transaction: %w"
	ErrMsgAddInventoryFailed      = "failed to add inventory unit: %w"
	ErrMsgRemoveInventoryFailed   = "failed to remove inventory unit: %w"
	ErrMsgAppendOpeningFailed     = "failed to append opening record: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetInventoryFailed      = "failed to get inventory: %w"
	ErrMsgListTransactionsFailed  = "failed to list transactions: %w"
	ErrMsgCountOpeningsFailed     = "failed to count openings: %w"
	ErrMsgListCasesFailed         = "failed to list cases: %w"
	ErrMsgShutdownTimedOut        = "shutdown timed out: %w"
	ErrFmtCaseNotFound            = "%w: %d"
	ErrFmtItemNotFound            = "%w: %d"
	ErrFmtUserNotFound            = "%w: %d"
	ErrFmtInsufficientFunds       = "%w: balance %d, price %d"
	ErrFmtItemNotInInventory      = "%w: item %d"
	ErrFmtNonPositiveID           = "%w: %s must be positive"
)

// Log messages
const (
	LogMsgOpenCaseCalled      = "OpenCase called"
	LogMsgCaseOpened          = "Case opened"
	LogMsgLevelUp             = "User leveled up"
	LogMsgSellItemCalled      = "SellItem called"
	LogMsgItemSold            = "Item sold"
	LogMsgDrawFailed          = "Case draw failed"
	LogMsgEconomyShuttingDown = "Economy service shutting down, waiting for background tasks..."
)
