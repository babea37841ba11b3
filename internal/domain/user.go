package domain

import "time"

// Account holds the economic state of one user
type Account struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Balance    int64     `json:"balance"`
	Experience int64     `json:"experience"`
	Level      int       `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// UserSnapshot is the read model returned to clients
type UserSnapshot struct {
	UserID                int64  `json:"user_id"`
	Username              string `json:"username"`
	Balance               int64  `json:"balance"`
	Experience            int64  `json:"experience"`
	Level                 int    `json:"level"`
	ExperienceToNextLevel int64  `json:"experience_to_next_level"`
	CasesOpened           int64  `json:"cases_opened"`
}

// InventoryEntry is one (user, item) holding
type InventoryEntry struct {
	UserID     int64     `json:"user_id"`
	Item       Item      `json:"item"`
	Quantity   int64     `json:"quantity"`
	ObtainedAt time.Time `json:"obtained_at"`
	IsFavorite bool      `json:"is_favorite"`
}
