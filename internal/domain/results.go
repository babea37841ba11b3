package domain

// OpenCaseResult is what a successful case opening produced
type OpenCaseResult struct {
	Item             Item  `json:"item"`
	CasePrice        int64 `json:"case_price"`
	NewBalance       int64 `json:"new_balance"`
	ExperienceGained int64 `json:"experience_gained"`
	NewExperience    int64 `json:"new_experience"`
	NewLevel         int   `json:"new_level"`
	LeveledUp        bool  `json:"leveled_up"`
	Quantity         int64 `json:"quantity"`
}

// SellResult is what a successful sale produced
type SellResult struct {
	Item              Item  `json:"item"`
	CreditedAmount    int64 `json:"credited_amount"`
	NewBalance        int64 `json:"new_balance"`
	RemainingQuantity int64 `json:"remaining_quantity"`
}

// BalanceAdjustment is the outcome of an administrative balance change
type BalanceAdjustment struct {
	UserID     int64  `json:"user_id"`
	Amount     int64  `json:"amount"`
	OldBalance int64  `json:"old_balance"`
	NewBalance int64  `json:"new_balance"`
	Reason     string `json:"reason"`
}

// SystemStats aggregates economy-wide figures
type SystemStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalBalance        int64 `json:"total_balance"`
	TotalOpenings       int64 `json:"total_openings"`
	TotalInventoryUnits int64 `json:"total_inventory_units"`
	TotalCredited       int64 `json:"total_credited"`
	TotalSpent          int64 `json:"total_spent"`
}
