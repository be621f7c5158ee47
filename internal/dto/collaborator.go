package dto

import (
	"time"

	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/services"
)

// CollaboratorDTO represents a board collaborator with its profile
type CollaboratorDTO struct {
	BoardID   uint64           `json:"board_id"`
	UserID    string           `json:"user_id"`
	Role      models.BoardRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	User      *UserDTO         `json:"user"`
}

// ToCollaboratorDTOs converts an enriched roster to DTOs
func ToCollaboratorDTOs(collaborators []services.EnrichedCollaborator) []CollaboratorDTO {
	result := make([]CollaboratorDTO, len(collaborators))
	for i, c := range collaborators {
		result[i] = CollaboratorDTO{
			BoardID:   c.BoardID,
			UserID:    c.UserID,
			Role:      c.Role,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			User:      ToUserDTO(c.User),
		}
	}
	return result
}
