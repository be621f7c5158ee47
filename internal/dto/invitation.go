package dto

import (
	"time"

	"github.com/yukikurage/standup-api/internal/models"
)

// InvitationDTO represents an invitation as seen by board admins
type InvitationDTO struct {
	ID            string                  `json:"id"`
	BoardID       uint64                  `json:"board_id"`
	InviterUserID string                  `json:"inviter_user_id"`
	Token         string                  `json:"token"`
	Role          models.BoardRole        `json:"role"`
	Status        models.InvitationStatus `json:"status"`
	Active        bool                    `json:"active"`
	ExpiresAt     time.Time               `json:"expires_at"`
	RevokedAt     *time.Time              `json:"revoked_at,omitempty"`
	UsedAt        *time.Time              `json:"used_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// InvitationBoardDTO is the board summary shown to invitees
type InvitationBoardDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PublicInvitationDTO represents an invitation looked up by token
type PublicInvitationDTO struct {
	Token     string                  `json:"token"`
	Role      models.BoardRole        `json:"role"`
	Status    models.InvitationStatus `json:"status"`
	Active    bool                    `json:"active"`
	ExpiresAt time.Time               `json:"expires_at"`
	Board     InvitationBoardDTO      `json:"board"`
}

// ToInvitationDTO converts an invitation model to DTO
func ToInvitationDTO(inv models.Invitation, now time.Time) InvitationDTO {
	return InvitationDTO{
		ID:            inv.ID,
		BoardID:       inv.BoardID,
		InviterUserID: inv.InviterUserID,
		Token:         inv.Token,
		Role:          inv.Role,
		Status:        inv.Status,
		Active:        inv.IsActive(now),
		ExpiresAt:     inv.ExpiresAt,
		RevokedAt:     inv.RevokedAt,
		UsedAt:        inv.UsedAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToPublicInvitationDTO converts an invitation with its board to DTO
func ToPublicInvitationDTO(inv models.Invitation, now time.Time) PublicInvitationDTO {
	return PublicInvitationDTO{
		Token:     inv.Token,
		Role:      inv.Role,
		Status:    inv.Status,
		Active:    inv.IsActive(now),
		ExpiresAt: inv.ExpiresAt,
		Board: InvitationBoardDTO{
			ID:   inv.BoardID,
			Name: inv.Board.Name,
		},
	}
}
