package dto

import (
	"time"

	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/utils"
)

// StandupDTO represents a standup entry in API responses
type StandupDTO struct {
	ID        uint64    `json:"id"`
	BoardID   uint64    `json:"board_id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Yesterday string    `json:"yesterday"`
	Today     string    `json:"today"`
	Blockers  string    `json:"blockers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StandupListDTO is a page of standups
type StandupListDTO struct {
	Standups   []StandupDTO             `json:"standups"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToStandupDTO converts a standup model to DTO
func ToStandupDTO(s models.Standup) StandupDTO {
	return StandupDTO{
		ID:        s.ID,
		BoardID:   s.BoardID,
		UserID:    s.UserID,
		Date:      s.Date,
		Yesterday: s.Yesterday,
		Today:     s.Today,
		Blockers:  s.Blockers,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToStandupListDTO converts a page of standups to DTO
func ToStandupListDTO(standups []models.Standup, params utils.PaginationParams, total int64) StandupListDTO {
	items := make([]StandupDTO, len(standups))
	for i, s := range standups {
		items[i] = ToStandupDTO(s)
	}
	return StandupListDTO{
		Standups: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
