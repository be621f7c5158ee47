package repository

import (
	"context"
	"time"

	"github.com/yukikurage/standup-api/internal/models"
	"github.com/yukikurage/standup-api/internal/utils"
)

// Store groups the repositories and runs units of work against one
// transaction. Repositories returned from the tx Store passed to fn share
// that transaction.
type Store interface {
	Boards() BoardRepository
	Collaborators() CollaboratorRepository
	Invitations() InvitationRepository
	Standups() StandupRepository

	// Transaction runs fn inside a database transaction. Returning an error
	// from fn rolls the transaction back and returns that error unchanged.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(ctx context.Context, board *models.Board) error

	// FindByID finds a board by ID
	FindByID(ctx context.Context, id uint64) (*models.Board, error)

	// FindByIDs finds all boards with the given IDs
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Board, error)

	// LockByID reads a board and locks its row until the transaction ends.
	// Dialects without row locks read it unlocked.
	LockByID(ctx context.Context, id uint64) (*models.Board, error)

	// Update updates a board
	Update(ctx context.Context, board *models.Board) error

	// Delete soft deletes a board
	Delete(ctx context.Context, id uint64) error
}

// CollaboratorRepository defines the interface for board membership data access
type CollaboratorRepository interface {
	// ListByBoard lists the collaborators of a board ordered by join time
	ListByBoard(ctx context.Context, boardID uint64) ([]models.Collaborator, error)

	// ListByUser lists all board memberships of a user
	ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error)

	// Find finds a specific collaborator
	Find(ctx context.Context, boardID uint64, userID string) (*models.Collaborator, error)

	// CountByRole counts the collaborators of a board holding role
	CountByRole(ctx context.Context, boardID uint64, role models.BoardRole) (int64, error)

	// CreateBatch inserts collaborators in one statement
	CreateBatch(ctx context.Context, collaborators []models.Collaborator) error

	// UpdateRole changes the role of one collaborator
	UpdateRole(ctx context.Context, boardID uint64, userID string, role models.BoardRole) error

	// DeleteUsers removes the given users from a board in one statement
	DeleteUsers(ctx context.Context, boardID uint64, userIDs []string) error

	// DeleteByBoard removes every collaborator of a board
	DeleteByBoard(ctx context.Context, boardID uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(ctx context.Context, invitation *models.Invitation) error

	// FindActive finds the most recent invitation of a board that is pending
	// and not expired at now
	FindActive(ctx context.Context, boardID uint64, now time.Time) (*models.Invitation, error)

	// FindByToken finds an invitation by token with its board preloaded
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)

	// FindByID finds an invitation scoped to a board
	FindByID(ctx context.Context, id string, boardID uint64) (*models.Invitation, error)

	// RevokePending marks every pending invitation of a board as revoked and
	// returns the number of rows changed
	RevokePending(ctx context.Context, boardID uint64, now time.Time) (int64, error)

	// MarkUsed consumes a pending invitation and returns the number of rows changed
	MarkUsed(ctx context.Context, id string, userID string, now time.Time) (int64, error)

	// UpdateExpiration sets a new expiry on an invitation scoped to a board and
	// returns the number of rows changed
	UpdateExpiration(ctx context.Context, id string, boardID uint64, expiresAt time.Time) (int64, error)

	// DeleteByBoard removes every invitation of a board
	DeleteByBoard(ctx context.Context, boardID uint64) error
}

// StandupRepository defines the interface for standup submission data access
type StandupRepository interface {
	// Upsert creates or replaces a user's entry for a board and day
	Upsert(ctx context.Context, standup *models.Standup) error

	// FindForDay finds a user's entry for a board and day
	FindForDay(ctx context.Context, boardID uint64, userID, date string) (*models.Standup, error)

	// List retrieves standups with filtering and pagination
	List(ctx context.Context, filter StandupFilter) ([]models.Standup, int64, error)

	// DeleteByBoard removes every standup of a board
	DeleteByBoard(ctx context.Context, boardID uint64) error
}

// StandupFilter holds filtering options for listing standups
type StandupFilter struct {
	BoardID    uint64
	Date       string
	UserID     string
	Pagination *utils.PaginationParams
}
