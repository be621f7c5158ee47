package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending InvitationStatus = "pending"
	InvitationUsed    InvitationStatus = "used"
	InvitationRevoked InvitationStatus = "revoked"
)

// Invitation is a shareable, time-boxed enrollment token for a board.
// Expiry is never stored as a status; it is derived from ExpiresAt.
type Invitation struct {
	ID            string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	BoardID       uint64           `gorm:"not null;index" json:"board_id"`
	InviterUserID string           `gorm:"type:varchar(64);not null" json:"inviter_user_id"`
	Token         string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	Role          BoardRole        `gorm:"type:varchar(20);not null" json:"role"`
	Status        InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt     time.Time        `gorm:"not null" json:"expires_at"`
	RevokedAt     *time.Time       `json:"revoked_at"`
	UsedAt        *time.Time       `json:"used_at"`
	UsedByUserID  *string          `gorm:"type:varchar(64)" json:"used_by_user_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the invitation is past its expiry at now.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// IsActive reports whether the invitation can still be redeemed at now.
func (i *Invitation) IsActive(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}
