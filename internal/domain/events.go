package domain

// Event types published by the engine
const (
	EventTypeCaseOpened      = "case.opened"
	EventTypeItemSold        = "item.sold"
	EventTypeLevelUp         = "user.level_up"
	EventTypeBalanceAdjusted = "balance.adjusted"
	EventTypeUserRegistered  = "user.registered"
	EventTypeEconomyReset    = "economy.reset"
)

// CaseOpenedPayload describes a completed case opening
type CaseOpenedPayload struct {
	UserID    int64  `json:"user_id"`
	CaseID    int64  `json:"case_id"`
	CaseName  string `json:"case_name"`
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	Rarity    Rarity `json:"rarity"`
	Price     int64  `json:"price"`
	Timestamp int64  `json:"timestamp"`
}

// ItemSoldPayload describes a completed sale
type ItemSoldPayload struct {
	UserID    int64  `json:"user_id"`
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	Rarity    Rarity `json:"rarity"`
	Credited  int64  `json:"credited"`
	Timestamp int64  `json:"timestamp"`
}

// LevelUpPayload is published when a purchase crosses a level boundary
type LevelUpPayload struct {
	UserID    int64 `json:"user_id"`
	OldLevel  int   `json:"old_level"`
	NewLevel  int   `json:"new_level"`
	Timestamp int64 `json:"timestamp"`
}

// BalanceAdjustedPayload is published after an admin balance change
type BalanceAdjustedPayload struct {
	AdminID   int64  `json:"admin_id"`
	UserID    int64  `json:"user_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// UserRegisteredPayload is published on first contact
type UserRegisteredPayload struct {
	UserID          int64  `json:"user_id"`
	Username        string `json:"username"`
	StartingBalance int64  `json:"starting_balance"`
	Timestamp       int64  `json:"timestamp"`
}

// EconomyResetPayload is published after a bulk reset
type EconomyResetPayload struct {
	AdminID       int64 `json:"admin_id"`
	UsersAffected int64 `json:"users_affected"`
	Timestamp     int64 `json:"timestamp"`
}
