package models

import "time"

type BoardRole string

const (
	RoleAdmin        BoardRole = "admin"
	RoleCollaborator BoardRole = "collaborator"
)

// Valid reports whether r is one of the known board roles.
func (r BoardRole) Valid() bool {
	return r == RoleAdmin || r == RoleCollaborator
}

// Collaborator is one user's role on one board. The user ID is issued by the
// external identity provider; (BoardID, UserID) is the primary key.
type Collaborator struct {
	BoardID   uint64    `gorm:"primarykey;autoIncrement:false" json:"board_id"`
	UserID    string    `gorm:"primarykey;type:varchar(64)" json:"user_id"`
	Role      BoardRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
