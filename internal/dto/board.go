package dto

import (
	"time"

	"github.com/yukikurage/standup-api/internal/identity"
	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/services"
)

// UserDTO represents an identity provider user in API responses
type UserDTO struct {
	ID              string `json:"id"`
	PrimaryEmail    string `json:"primary_email"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardWithRoleDTO represents a board with the caller's role
type BoardWithRoleDTO struct {
	BoardDTO
	Role models.BoardRole `json:"role"`
}

// ToUserDTO converts a provider profile to DTO
func ToUserDTO(profile *identity.UserProfile) *UserDTO {
	if profile == nil {
		return nil
	}
	return &UserDTO{
		ID:              profile.ID,
		PrimaryEmail:    profile.PrimaryEmail,
		DisplayName:     profile.DisplayName,
		ProfileImageURL: profile.ProfileImageURL,
	}
}

// ToBoardDTO converts a board model to DTO
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

// ToBoardWithRoleDTOs converts memberships to DTOs
func ToBoardWithRoleDTOs(memberships []services.BoardMembership) []BoardWithRoleDTO {
	result := make([]BoardWithRoleDTO, len(memberships))
	for i, m := range memberships {
		result[i] = BoardWithRoleDTO{
			BoardDTO: ToBoardDTO(m.Board),
			Role:     m.Role,
		}
	}
	return result
}
