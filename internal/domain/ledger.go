package domain

import "time"

// TransactionType classifies a ledger entry
type TransactionType string

// Ledger entry types
const (
	TransactionPurchase TransactionType = "purchase"
	TransactionReward   TransactionType = "reward"
	TransactionSell     TransactionType = "sell"
	TransactionSync     TransactionType = "sync"
	TransactionAdmin    TransactionType = "admin"
)

// Transaction is an append-only ledger entry. Amount is signed.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OpeningRecord is an append-only record of one case opening
type OpeningRecord struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	CaseID   int64     `json:"case_id"`
	ItemID   int64     `json:"item_id"`
	OpenedAt time.Time `json:"opened_at"`
}

// Ledger descriptions
const (
	DescStartingBonus = "Starting bonus"
	DescOpenCaseFmt   = "Opened case: %s"
	DescSellItemFmt   = "Sold item: %s"
)
