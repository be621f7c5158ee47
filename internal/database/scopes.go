package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveInvitations restricts a query to invitations of boardID that are
// pending and not yet expired at now.
func ActiveInvitations(boardID uint64, now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("board_id = ? AND status = ? AND expires_at > ?", boardID, models.InvitationPending, now)
	}
}
