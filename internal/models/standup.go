package models

import "time"

// Standup is one user's daily submission on a board. A user has at most one
// entry per board and calendar day.
type Standup struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	BoardID   uint64    `gorm:"not null;uniqueIndex:idx_standups_board_user_date" json:"board_id"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_standups_board_user_date" json:"user_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_standups_board_user_date;index" json:"date"`
	Yesterday string    `gorm:"type:text" json:"yesterday"`
	Today     string    `gorm:"type:text" json:"today"`
	Blockers  string    `gorm:"type:text" json:"blockers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
